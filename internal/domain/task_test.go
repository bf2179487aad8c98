package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	userID := uuid.New()

	task, err := NewTask(userID, "Buy groceries")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, task.UserID)
	}

	if task.Completed {
		t.Error("Expected new task to default to not completed")
	}

	if task.Priority != PriorityMedium {
		t.Errorf("Expected default priority %q, got %q", PriorityMedium, task.Priority)
	}

	if task.Tags == nil || len(task.Tags) != 0 {
		t.Errorf("Expected empty tag list, got %v", task.Tags)
	}

	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Error("Expected created_at and updated_at to match on creation")
	}

	// Owner is required
	_, err = NewTask(uuid.Nil, "Buy groceries")
	if err != ErrEmptyTaskUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskUserID, err)
	}

	// Title is required
	_, err = NewTask(userID, "")
	if err != ErrEmptyTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTitle, err)
	}
}

func TestTaskValidate(t *testing.T) {
	valid := func() *Task {
		task, err := NewTask(uuid.New(), "Valid task")
		if err != nil {
			t.Fatalf("failed to create valid task: %v", err)
		}
		return task
	}

	t.Run("title too long", func(t *testing.T) {
		task := valid()
		task.Title = strings.Repeat("x", MaxTitleLength+1)
		if err := task.Validate(); err != ErrTitleTooLong {
			t.Errorf("Expected error %v, got %v", ErrTitleTooLong, err)
		}
	})

	t.Run("title at limit is valid", func(t *testing.T) {
		task := valid()
		task.Title = strings.Repeat("x", MaxTitleLength)
		if err := task.Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("title limit counts characters not bytes", func(t *testing.T) {
		task := valid()
		task.Title = strings.Repeat("ü", MaxTitleLength)
		if err := task.Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}

		task.Title = strings.Repeat("ü", MaxTitleLength+1)
		if err := task.Validate(); err != ErrTitleTooLong {
			t.Errorf("Expected error %v, got %v", ErrTitleTooLong, err)
		}
	})

	t.Run("description too long", func(t *testing.T) {
		task := valid()
		desc := strings.Repeat("d", MaxDescriptionLength+1)
		task.Description = &desc
		if err := task.Validate(); err != ErrDescriptionTooLong {
			t.Errorf("Expected error %v, got %v", ErrDescriptionTooLong, err)
		}
	})

	t.Run("invalid priority", func(t *testing.T) {
		task := valid()
		task.Priority = Priority("urgent")
		if err := task.Validate(); err != ErrInvalidPriority {
			t.Errorf("Expected error %v, got %v", ErrInvalidPriority, err)
		}
	})

	t.Run("invalid recurrence pattern", func(t *testing.T) {
		task := valid()
		task.Recurring = true
		pattern := RecurrencePattern("yearly")
		task.RecurrencePattern = &pattern
		if err := task.Validate(); err != ErrInvalidRecurrence {
			t.Errorf("Expected error %v, got %v", ErrInvalidRecurrence, err)
		}
	})

	t.Run("pattern without recurring flag", func(t *testing.T) {
		task := valid()
		pattern := RecurrenceWeekly
		task.RecurrencePattern = &pattern
		if err := task.Validate(); err != ErrRecurrenceWithoutFlag {
			t.Errorf("Expected error %v, got %v", ErrRecurrenceWithoutFlag, err)
		}
	})
}

func TestToggleCompleted(t *testing.T) {
	task, err := NewTask(uuid.New(), "Toggle me")
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	before := task.UpdatedAt
	time.Sleep(time.Millisecond)

	task.ToggleCompleted()
	if !task.Completed {
		t.Error("Expected task to be completed after toggle")
	}
	if !task.UpdatedAt.After(before) {
		t.Error("Expected updated_at to be refreshed on toggle")
	}

	task.ToggleCompleted()
	if task.Completed {
		t.Error("Expected task to be uncompleted after second toggle")
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Error("Expected high < medium < low in ascending rank")
	}

	if Priority("bogus").Rank() <= PriorityLow.Rank() {
		t.Error("Expected unknown priorities to rank after low")
	}
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "RFC3339 with Z",
			input: "2025-06-15T10:30:00Z",
			want:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 with offset",
			input: "2025-06-15T12:30:00+02:00",
			want:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "naive timestamp",
			input: "2025-06-15T10:30:00",
			want:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "bare date",
			input: "2025-06-15",
			want:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "not a date",
			input:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDueDate(tc.input)
			if tc.wantErr {
				if err != ErrInvalidDueDate {
					t.Errorf("Expected error %v, got %v", ErrInvalidDueDate, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseDueDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
