package testutil

import "testing"

func TestParserGoldenCasesDiscovered(t *testing.T) {
	cases, err := ParserGoldenCases()
	if err != nil {
		t.Fatalf("ParserGoldenCases: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("expected at least one parser golden case")
	}

	for _, c := range cases {
		if c.Source == nil {
			t.Fatalf("%s: missing input.c section", c.Name)
		}
	}
}
