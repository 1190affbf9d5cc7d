package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		sql       string
		operation string
		table     string
	}{
		{`SELECT * FROM "users" WHERE email = $1`, "SELECT", "users"},
		{`INSERT INTO "active_sessions" ("id","email") VALUES ($1,$2)`, "INSERT", "active_sessions"},
		{`UPDATE "student_progress" SET "current_lesson"=$1`, "UPDATE", "student_progress"},
		{`DELETE FROM lesson_likes WHERE course_id = $1`, "DELETE", "lesson_likes"},
		{`select count(*) from login_attempts`, "SELECT", "login_attempts"},
		{`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`, "CREATE", "unknown"},
		{``, "unknown", "unknown"},
	}

	for _, tt := range tests {
		operation, table := Classify(tt.sql)
		assert.Equal(t, tt.operation, operation, tt.sql)
		assert.Equal(t, tt.table, table, tt.sql)
	}
}
