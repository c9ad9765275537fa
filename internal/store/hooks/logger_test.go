package hooks

import "testing"

func TestOperationType(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{"SELECT * FROM items", "select"},
		{"  insert into items values (1)", "insert"},
		{"UPDATE items SET name = 'x'", "update"},
		{"delete from items where id = 1", "delete"},
		{"CREATE TABLE items (id BIGSERIAL)", "create"},
		{"BEGIN", "begin"},
		{"COMMIT", "commit"},
		{"ROLLBACK", "rollback"},
		{"EXPLAIN SELECT 1", "other"},
	}

	for _, tt := range tests {
		if got := OperationType(tt.query); got != tt.expected {
			t.Errorf("OperationType(%q) = %s, expected %s", tt.query, got, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("short query should be untouched, got %q", got)
	}

	long := truncate("SELECT column_a, column_b FROM items", 10)
	if long != "SELECT col..." {
		t.Errorf("expected truncated query, got %q", long)
	}
}
