package domain

import (
	"fmt"
	"strings"
)

// QuestionType describes how a question's content is interpreted:
// literal text, or a media reference for image/audio.
type QuestionType string

const (
	QuestionTypeText  QuestionType = "text"
	QuestionTypeImage QuestionType = "image"
	QuestionTypeAudio QuestionType = "audio"
)

// AnswerType describes the answer mechanism of a question.
type AnswerType string

const (
	AnswerTypeMultipleChoice AnswerType = "multiple_choice"
	AnswerTypeFillInBlank    AnswerType = "fill_in_blank"
	AnswerTypeImageVideo     AnswerType = "image_video"
)

// ChoiceType describes how a choice's content is interpreted.
type ChoiceType string

const (
	ChoiceTypeText  ChoiceType = "text"
	ChoiceTypeImage ChoiceType = "image"
	ChoiceTypeAudio ChoiceType = "audio"
)

var questionTypes = map[string]QuestionType{
	"text":  QuestionTypeText,
	"image": QuestionTypeImage,
	"audio": QuestionTypeAudio,
}

var answerTypes = map[string]AnswerType{
	"multiple_choice": AnswerTypeMultipleChoice,
	"fill_in_blank":   AnswerTypeFillInBlank,
	"image_video":     AnswerTypeImageVideo,
}

var choiceTypes = map[string]ChoiceType{
	"text":  ChoiceTypeText,
	"image": ChoiceTypeImage,
	"audio": ChoiceTypeAudio,
}

// ParseQuestionType maps a free-form string to a QuestionType.
func ParseQuestionType(s string) (QuestionType, error) {
	if t, ok := questionTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", NewValidationError(fmt.Sprintf("invalid question_type: %q", s))
}

// ParseAnswerType maps a free-form string to an AnswerType.
func ParseAnswerType(s string) (AnswerType, error) {
	if t, ok := answerTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", NewValidationError(fmt.Sprintf("invalid answer_type: %q", s))
}

// ParseChoiceType maps a free-form string to a ChoiceType. An empty
// string defaults to text, matching what form clients send.
func ParseChoiceType(s string) (ChoiceType, error) {
	if strings.TrimSpace(s) == "" {
		return ChoiceTypeText, nil
	}
	if t, ok := choiceTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", NewValidationError(fmt.Sprintf("invalid choice_type: %q", s))
}

// HasMediaContent reports whether this question type stores a media
// reference instead of literal text.
func (t QuestionType) HasMediaContent() bool {
	return t == QuestionTypeImage || t == QuestionTypeAudio
}

// HasMediaContent reports whether this choice type stores a media reference.
func (t ChoiceType) HasMediaContent() bool {
	return t == ChoiceTypeImage || t == ChoiceTypeAudio
}

// ParseCorrectFlag coerces loosely-typed is_correct values into a bool.
// Accepted forms: native booleans, numbers (non-zero is true), and the
// case-insensitive strings "true"/"false". Anything else is rejected.
func ParseCorrectFlag(v interface{}) (bool, error) {
	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case float64:
		return val != 0, nil
	case int:
		return val != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1":
			return true, nil
		case "false", "0", "":
			return false, nil
		}
		return false, NewValidationError(fmt.Sprintf("invalid is_correct value: %q", val))
	default:
		return false, NewValidationError(fmt.Sprintf("invalid is_correct value of type %T", v))
	}
}
