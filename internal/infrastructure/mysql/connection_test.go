package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ada@example.com' for key 'uq_newsletter_subscribers_email'"}

	assert.True(t, IsDuplicateEntry(dup))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("inserting subscriber: %w", dup)))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateEntry(errors.New("connection refused")))
	assert.False(t, IsDuplicateEntry(nil))
}
