package domain

// Text is a displayable string in one of two forms: a literal, or a
// reference to a translation key with named parameters resolved at render
// time. Parameters may themselves be Texts, so a subtitle template can embed
// a translated severity name.
//
// The zero value is the empty literal.
type Text struct {
	Literal string          `json:"literal,omitempty"`
	Key     string          `json:"key,omitempty"`
	Params  map[string]Text `json:"params,omitempty"`
}

// Plain returns a literal Text.
func Plain(s string) Text {
	return Text{Literal: s}
}

// Keyed returns a Text referencing a translation key.
func Keyed(key string) Text {
	return Text{Key: key}
}

// KeyedWith returns a Text referencing a translation key with parameters.
func KeyedWith(key string, params map[string]Text) Text {
	return Text{Key: key, Params: params}
}

// IsKeyed reports whether the text must go through a translation table.
func (t Text) IsKeyed() bool {
	return t.Key != ""
}

// IsZero reports whether the text carries nothing to display.
func (t Text) IsZero() bool {
	return t.Literal == "" && t.Key == ""
}

// Equal reports deep equality, including nested parameters.
func (t Text) Equal(other Text) bool {
	if t.Literal != other.Literal || t.Key != other.Key {
		return false
	}
	if len(t.Params) != len(other.Params) {
		return false
	}
	for k, v := range t.Params {
		ov, ok := other.Params[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
