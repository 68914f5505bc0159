package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Users []Seed `yaml:"users"`
}

// LoadSeedFile lee usuarios del directorio en memoria desde YAML:
//
//	users:
//	  - subject: "1001"
//	    login_id: john
//	    password: john          # o password_hash: $argon2id$...
//	    name: John Smith
//	    address: {country: USA}
func LoadSeedFile(path string) ([]Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directory: read seeds: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("directory: parse seeds: %w", err)
	}
	return f.Users, nil
}
