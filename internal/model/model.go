package model

// All returns every persisted model, in migration order.
func All() []any {
	return []any{&GemAccount{}, &Transaction{}, &ActiveSelection{}, &OwnedItem{}, &Justification{}}
}
