package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// SessionEvent records one finished quiz. Abandoned quizzes are not stored.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID of the playthrough"),
		field.Int("total").
			Comment("Questions asked"),
		field.Int("correct").
			Comment("Fully correct answers"),
		field.Int("incorrect").
			Comment("Answers that were not fully correct"),
		field.Int("duration_secs").
			Comment("Start to last answer, rounded to seconds"),
		field.Int("percentage").
			Comment("round(correct/total*100)"),
		field.String("grade").
			Comment("Letter grade A-F"),
		field.JSON("files", []string{}).
			Comment("Base names of the report files"),
		field.Int("weak_added").
			Default(0).
			Comment("Questions added to the weakness set"),
		field.Int("weak_cleared").
			Default(0).
			Comment("Questions removed from the weakness set"),
		field.Bool("retry").
			Default(false).
			Comment("Replay of the previous question set"),
	}
}
