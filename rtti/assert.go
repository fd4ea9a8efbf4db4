package rtti

func assertWellFormed(t *Table) {
	if !debugAssertions {
		return
	}
	if err := t.Validate(); err != nil {
		panic(err)
	}
}
