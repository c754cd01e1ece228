package assert

// NotNil panics when a required dependency was not provided to a constructor.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}
