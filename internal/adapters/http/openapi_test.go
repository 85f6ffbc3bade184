package httpadapter

import (
	"testing"
)

func TestEmbeddedContractLoads(t *testing.T) {
	c, err := loadContract(openAPIDocument)
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	for _, name := range []string{"NavigationState", "NavigationIntent", "Dashboard", "Error"} {
		if _, ok := c.doc.Components.Schemas[name]; !ok {
			t.Fatalf("expected schema %s", name)
		}
	}
}

func TestLoadContractRejectsGarbage(t *testing.T) {
	if _, err := loadContract([]byte("openapi: [")); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}
