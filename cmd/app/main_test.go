package main

import (
	"testing"

	"go.uber.org/fx"
)

func TestAppGraph(t *testing.T) {
	if err := fx.ValidateApp(appOptions()); err != nil {
		t.Fatalf("dependency graph is incomplete: %v", err)
	}
}
