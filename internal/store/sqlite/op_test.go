package sqlite

import "testing"

func TestOp(t *testing.T) {
	s := &implStore{}
	if got := s.op("Append"); got != "store/sqlite.Append" {
		t.Errorf("op(Append) = %q", got)
	}
}
