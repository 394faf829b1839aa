package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind est l'énumération fermée des échecs métier.
// Aucune erreur non typée ne doit sortir d'un service.
type Kind uint8

const (
	KindValidation Kind = iota
	KindNotFound
	KindInsufficientStock
	KindDuplicateItem
	KindUnauthorized
	KindTransaction
)

type Fault struct {
	Kind Kind
	Msg  string
	Ref  string // identifiant de la ressource concernée (phone_id, order_id…)
}

func (f *Fault) Error() string {
	if f.Ref != "" {
		return fmt.Sprintf("%s (%s)", f.Msg, f.Ref)
	}
	return f.Msg
}

func Validation(format string, args ...any) *Fault {
	return &Fault{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(ref string) *Fault {
	return &Fault{Kind: KindNotFound, Msg: "ressource introuvable", Ref: ref}
}

func InsufficientStock(ref string, available, requested int) *Fault {
	return &Fault{
		Kind: KindInsufficientStock,
		Msg:  fmt.Sprintf("stock insuffisant (disponible: %d, demandé: %d)", available, requested),
		Ref:  ref,
	}
}

func DuplicateItem(ref string) *Fault {
	return &Fault{Kind: KindDuplicateItem, Msg: "élément déjà présent", Ref: ref}
}

func Unauthorized(msg string) *Fault {
	return &Fault{Kind: KindUnauthorized, Msg: msg}
}

func Transaction(msg string) *Fault {
	return &Fault{Kind: KindTransaction, Msg: msg}
}

// As extrait le Fault d'une chaîne d'erreurs
func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	f, ok := As(err)
	return ok && f.Kind == kind
}

// HTTPStatus traduit un Kind en statut HTTP pour les handlers
func HTTPStatus(err error) int {
	f, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch f.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindDuplicateItem:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusForbidden
	case KindTransaction:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
