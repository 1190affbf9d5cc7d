package migrations

import (
	"fmt"

	"gorm.io/gorm"
)

// checkConstraints are table invariants gorm tags cannot express.
var checkConstraints = []struct {
	table string
	name  string
	expr  string
}{
	{"lessons", "chk_lessons_number_positive", "lesson_number >= 1"},
	{"lessons", "chk_lessons_content", "video_url <> '' OR pdf_url <> ''"},
	{"student_progress", "chk_student_progress_current", "current_lesson >= 1"},
	{"quiz_questions", "chk_quiz_questions_number", "question_number BETWEEN 1 AND 5"},
}

func init() {
	Register("check_constraints", addCheckConstraints)
}

func addCheckConstraints(db *gorm.DB) error {
	for _, c := range checkConstraints {
		stmt := fmt.Sprintf(`DO $$ BEGIN
	ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
EXCEPTION WHEN duplicate_object THEN NULL;
END $$;`, c.table, c.name, c.expr)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add %s: %w", c.name, err)
		}
	}
	return nil
}
