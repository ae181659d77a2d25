package main

import (
	"testing"

	"github.com/tinyland-lab/reclaim/delete"
	"github.com/tinyland-lab/reclaim/model"
)

func TestParseProtectionLevel(t *testing.T) {
	cases := map[string]model.ProtectionLevel{
		"none":     model.ProtectionNone,
		"block":    model.ProtectionBlock,
		"paranoid": model.ProtectionParanoid,
		"warn":     model.ProtectionWarn,
		"bogus":    model.ProtectionWarn, // unrecognized input defaults to warn
	}
	for s, want := range cases {
		if got := parseProtectionLevel(s); got != want {
			t.Errorf("parseProtectionLevel(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseDeleteMethod(t *testing.T) {
	cases := map[string]delete.Method{
		"trash":     delete.MethodTrash,
		"permanent": delete.MethodPermanent,
		"dry-run":   delete.MethodDryRun,
		"bogus":     delete.MethodDryRun, // unrecognized input defaults to dry-run
	}
	for s, want := range cases {
		if got := parseDeleteMethod(s); got != want {
			t.Errorf("parseDeleteMethod(%q) = %v, want %v", s, got, want)
		}
	}
}
