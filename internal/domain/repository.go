package domain

import "context"

// TransactionManager runs a function inside a database transaction. The
// transaction is carried through the context so repositories used inside
// fn participate in it; an error from fn rolls everything back.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LevelRepository persists levels.
type LevelRepository interface {
	GetByID(ctx context.Context, id int64) (*Level, error)
	List(ctx context.Context) ([]*Level, error)
	Save(ctx context.Context, level *Level) error
	Update(ctx context.Context, level *Level) error
	Delete(ctx context.Context, id int64) error
}

// SectionRepository persists sections.
type SectionRepository interface {
	GetByID(ctx context.Context, id int64) (*Section, error)
	List(ctx context.Context) ([]*Section, error)
	ListByLevel(ctx context.Context, levelID int64) ([]*Section, error)
	Save(ctx context.Context, section *Section) error
	Update(ctx context.Context, section *Section) error
	Delete(ctx context.Context, id int64) error
}

// QuestionRepository persists questions and their choices. Lookup methods
// return (nil, nil) when the id does not resolve; a missing row is a
// normal negative result, not an error.
type QuestionRepository interface {
	GetByID(ctx context.Context, id int64) (*Question, error)
	List(ctx context.Context) ([]*Question, error)
	ListBySection(ctx context.Context, sectionID int64) ([]*Question, error)
	Save(ctx context.Context, question *Question) error
	Update(ctx context.Context, question *Question) error
	Delete(ctx context.Context, id int64) error

	GetChoice(ctx context.Context, questionID, choiceID int64) (*QuestionChoice, error)
	SaveChoice(ctx context.Context, choice *QuestionChoice) error
	UpdateChoice(ctx context.Context, choice *QuestionChoice) error
	DeleteChoice(ctx context.Context, choiceID int64) error
	DeleteChoicesByQuestion(ctx context.Context, questionID int64) error
}

// QuizRepository persists quizzes, quiz questions and quiz choices.
type QuizRepository interface {
	GetByID(ctx context.Context, id int64) (*Quiz, error)
	GetByLevelID(ctx context.Context, levelID int64) (*Quiz, error)
	List(ctx context.Context) ([]*Quiz, error)
	Save(ctx context.Context, quiz *Quiz) error
	Update(ctx context.Context, quiz *Quiz) error
	Delete(ctx context.Context, id int64) error

	GetQuestion(ctx context.Context, quizQuestionID int64) (*QuizQuestion, error)
	ListQuestions(ctx context.Context, quizID int64) ([]*QuizQuestion, error)
	CountQuestions(ctx context.Context, quizID int64) (int, error)
	SaveQuestion(ctx context.Context, question *QuizQuestion) error
	UpdateQuestion(ctx context.Context, question *QuizQuestion) error
	DeleteQuestion(ctx context.Context, quizQuestionID int64) error
	DeleteChoicesByQuestion(ctx context.Context, quizQuestionID int64) error
	SaveChoice(ctx context.Context, choice *QuizChoice) error
}
