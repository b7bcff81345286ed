package domain

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorsUnwrapToKind(t *testing.T) {
	err := InvalidState("table #%d is already occupied", 4)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if err.Error() != "table #4 is already occupied" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{InvalidState("nope"), http.StatusConflict},
		{Upstream("db down"), http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := Status(c.err); got != c.want {
			t.Fatalf("Status(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
