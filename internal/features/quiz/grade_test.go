package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrade(t *testing.T) {
	questions := []Question{
		{Number: 1, Question: "Keyword for a goroutine?", Answer: "go"},
		{Number: 2, Question: "Zero value of a pointer?", Answer: "nil"},
	}

	result := Grade(questions, []string{"  GO ", "nil"})
	assert.True(t, result.Passed)
	assert.Equal(t, 2, result.Score)
	assert.Empty(t, result.Results[0].ExpectedAnswer)

	result = Grade(questions, []string{"go", "null"})
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, QuestionResult{Number: 2, Correct: false, ExpectedAnswer: "nil"}, result.Results[1])

	result = Grade(questions, []string{"go"})
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.Score)

	assert.False(t, Grade(nil, nil).Passed)
}
