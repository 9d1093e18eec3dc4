package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionDateFilter(t *testing.T) {
	t.Run("no bounds", func(t *testing.T) {
		where, args := sessionDateFilter("", "")
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("both bounds", func(t *testing.T) {
		where, args := sessionDateFilter("2025-08-01", "2025-08-31")
		assert.Contains(t, where, "ws.start_time >= ?")
		assert.Contains(t, where, "ws.end_time <= ?")
		assert.Equal(t, []interface{}{"2025-08-01", "2025-08-31 23:59:59"}, args)
	})

	t.Run("start only", func(t *testing.T) {
		where, args := sessionDateFilter("2025-08-01", "")
		assert.Contains(t, where, "ws.start_time >= ?")
		assert.NotContains(t, where, "ws.end_time")
		assert.Equal(t, []interface{}{"2025-08-01"}, args)
	})

	t.Run("end only is inclusive through end of day", func(t *testing.T) {
		where, args := sessionDateFilter("", "2025-08-31")
		assert.NotContains(t, where, "ws.start_time")
		assert.Equal(t, []interface{}{"2025-08-31 23:59:59"}, args)
	})
}
