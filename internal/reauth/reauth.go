// Package reauth decide si un usuario ya autenticado en la sesión puede
// reutilizarse para una nueva solicitud de autorización.
package reauth

import "time"

// Prompt es un valor del parámetro prompt de OIDC.
type Prompt string

const (
	PromptLogin         Prompt = "LOGIN"
	PromptNone          Prompt = "NONE"
	PromptConsent       Prompt = "CONSENT"
	PromptSelectAccount Prompt = "SELECT_ACCOUNT"
)

// Verdict es el resultado de Evaluate.
type Verdict int

const (
	NoAction Verdict = iota // no hay usuario en sesión
	Keep
	Clear
)

func (v Verdict) String() string {
	switch v {
	case Keep:
		return "keep"
	case Clear:
		return "clear"
	default:
		return "no_action"
	}
}

// Reason explica un Clear.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonPromptLogin Reason = "prompt_login"
	ReasonMaxAge      Reason = "max_age"
)

// Decision agrupa veredicto y motivo.
type Decision struct {
	Verdict Verdict
	Reason  Reason
}

// Evaluate no tiene efectos. authenticatedAt es nil cuando la sesión no tiene
// usuario. maxAge en segundos; 0 significa sin límite.
//
// prompt=login fuerza reautenticación antes de mirar max_age.
func Evaluate(authenticatedAt *int64, prompts []Prompt, maxAge int64, now time.Time) Decision {
	if authenticatedAt == nil {
		return Decision{Verdict: NoAction}
	}
	for _, p := range prompts {
		if p == PromptLogin {
			return Decision{Verdict: Clear, Reason: ReasonPromptLogin}
		}
	}
	if maxAge > 0 && now.Unix()-*authenticatedAt > maxAge {
		return Decision{Verdict: Clear, Reason: ReasonMaxAge}
	}
	return Decision{Verdict: Keep}
}
