package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// DeadlinesColumns holds the columns for the "deadlines" table.
	DeadlinesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "due_at", Type: field.TypeTime},
		{Name: "study_intensity", Type: field.TypeInt, Default: 1},
		{Name: "reset_count", Type: field.TypeInt, Default: 0},
		{Name: "interval_mode", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
	}
	// DeadlinesTable holds the schema information for the "deadlines" table.
	DeadlinesTable = &schema.Table{
		Name:       "deadlines",
		Columns:    DeadlinesColumns,
		PrimaryKey: []*schema.Column{DeadlinesColumns[0]},
	}

	// DecksColumns holds the columns for the "decks" table.
	DecksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "mode", Type: field.TypeInt, Default: 0},
		{Name: "box_count", Type: field.TypeInt, Default: 0},
		{Name: "new_per_day", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "deadline_id", Type: field.TypeInt64},
	}
	// DecksTable holds the schema information for the "decks" table.
	DecksTable = &schema.Table{
		Name:       "decks",
		Columns:    DecksColumns,
		PrimaryKey: []*schema.Column{DecksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "decks_deadlines_decks",
				Columns:    []*schema.Column{DecksColumns[6]},
				RefColumns: []*schema.Column{DeadlinesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "deck_deadline_id_name",
				Unique:  true,
				Columns: []*schema.Column{DecksColumns[6], DecksColumns[1]},
			},
		},
	}

	// CardsColumns holds the columns for the "cards" table.
	CardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "front", Type: field.TypeString, Size: 2147483647},
		{Name: "back", Type: field.TypeString, Size: 2147483647},
		{Name: "box_position", Type: field.TypeInt, Default: 0},
		{Name: "last_review", Type: field.TypeInt64, Default: 0},
		{Name: "repetitions", Type: field.TypeInt, Default: 0},
		{Name: "interval_days", Type: field.TypeInt, Default: 0},
		{Name: "easiness", Type: field.TypeFloat64, Default: 2.5},
		{Name: "next_practice", Type: field.TypeInt64, Default: 0},
		{Name: "deck_id", Type: field.TypeInt64},
	}
	// CardsTable holds the schema information for the "cards" table.
	CardsTable = &schema.Table{
		Name:       "cards",
		Columns:    CardsColumns,
		PrimaryKey: []*schema.Column{CardsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "cards_decks_cards",
				Columns:    []*schema.Column{CardsColumns[9]},
				RefColumns: []*schema.Column{DecksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "card_deck_id",
				Unique:  false,
				Columns: []*schema.Column{CardsColumns[9]},
			},
		},
	}

	// QuotasColumns holds the columns for the "quotas" table.
	QuotasColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "days_to_go", Type: field.TypeInt},
		{Name: "new_assigned", Type: field.TypeInt},
		{Name: "review_assigned", Type: field.TypeInt},
		{Name: "new_quota_initial", Type: field.TypeInt},
		{Name: "review_quota_initial", Type: field.TypeInt},
		{Name: "new_practiced", Type: field.TypeInt},
		{Name: "review_practiced", Type: field.TypeInt},
		{Name: "deck_id", Type: field.TypeInt64},
	}
	// QuotasTable holds the schema information for the "quotas" table.
	QuotasTable = &schema.Table{
		Name:       "quotas",
		Columns:    QuotasColumns,
		PrimaryKey: []*schema.Column{QuotasColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quotas_decks_quotas",
				Columns:    []*schema.Column{QuotasColumns[8]},
				RefColumns: []*schema.Column{DecksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "quota_deck_id_days_to_go",
				Unique:  true,
				Columns: []*schema.Column{QuotasColumns[8], QuotasColumns[1]},
			},
		},
	}

	// IntervalDaysColumns holds the columns for the "interval_days" table.
	IntervalDaysColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "day", Type: field.TypeString},
		{Name: "new_practiced", Type: field.TypeInt, Default: 0},
		{Name: "review_practiced", Type: field.TypeInt, Default: 0},
		{Name: "deck_id", Type: field.TypeInt64},
	}
	// IntervalDaysTable holds the schema information for the "interval_days" table.
	IntervalDaysTable = &schema.Table{
		Name:       "interval_days",
		Columns:    IntervalDaysColumns,
		PrimaryKey: []*schema.Column{IntervalDaysColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "interval_days_decks_days",
				Columns:    []*schema.Column{IntervalDaysColumns[4]},
				RefColumns: []*schema.Column{DecksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "intervalday_deck_id_day",
				Unique:  true,
				Columns: []*schema.Column{IntervalDaysColumns[4], IntervalDaysColumns[1]},
			},
		},
	}

	// ReviewEventsColumns holds the columns for the "review_events" table.
	ReviewEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "deck_id", Type: field.TypeInt64},
		{Name: "card_id", Type: field.TypeInt64},
		{Name: "stack_before", Type: field.TypeString},
		{Name: "stack_after", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "user_answer", Type: field.TypeString, Default: ""},
		{Name: "box_before", Type: field.TypeInt, Default: 0},
		{Name: "box_after", Type: field.TypeInt, Default: 0},
	}
	// ReviewEventsTable holds the schema information for the "review_events" table.
	// Events carry no foreign key so the log outlives deleted decks.
	ReviewEventsTable = &schema.Table{
		Name:       "review_events",
		Columns:    ReviewEventsColumns,
		PrimaryKey: []*schema.Column{ReviewEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "reviewevent_deck_id_timestamp",
				Unique:  false,
				Columns: []*schema.Column{ReviewEventsColumns[4], ReviewEventsColumns[2]},
			},
			{
				Name:    "reviewevent_session_id",
				Unique:  false,
				Columns: []*schema.Column{ReviewEventsColumns[3]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		DeadlinesTable,
		DecksTable,
		CardsTable,
		QuotasTable,
		IntervalDaysTable,
		ReviewEventsTable,
	}
)

func init() {
	DecksTable.ForeignKeys[0].RefTable = DeadlinesTable
	CardsTable.ForeignKeys[0].RefTable = DecksTable
	QuotasTable.ForeignKeys[0].RefTable = DecksTable
	IntervalDaysTable.ForeignKeys[0].RefTable = DecksTable
}

// migrate creates or upgrades all tables.
func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}
