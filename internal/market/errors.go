package market

import (
	"errors"
	"fmt"
)

// Kind tags a recoverable operation failure. The UI keys its messages off
// the tag; the Message is the human-readable fallback.
type Kind string

const (
	KindBadQuantity    Kind = "bad_quantity"
	KindUnknownVillage Kind = "unknown_village"
	KindUnknownItem    Kind = "unknown_item"
	KindUnknownMerc    Kind = "unknown_merc"
	KindOutOfStock     Kind = "out_of_stock"
	KindNoFunds        Kind = "no_funds"
	KindNotOwned       Kind = "not_owned"
	KindOverweight     Kind = "overweight"
	KindNotAMarket     Kind = "not_a_market"
	KindNotAHiringPost Kind = "not_a_hiring_post"
	KindAlreadyHired   Kind = "already_hired"
)

// Error is a recoverable economy failure. Player state is untouched when
// one is returned.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure tag, or "" for non-market errors.
func KindOf(err error) Kind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return ""
}
