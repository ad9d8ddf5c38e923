package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/pupitre/internal/dateutil"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

const reviewerSystemPrompt = `You are a school timetable assistant. You review a weekly class timetable for workload balance. Be concise and concrete.`

const reviewPromptTemplate = `Review this weekly timetable. Hours run from %s to %s.

Data format:
- One header per day, then one line per course: start-end [TYPE] name (room) duration
- "free" lines are unassigned time

Timetable:
%s
Respond ONLY with valid JSON (no markdown, no explanation):
{
  "summary": "one sentence about the overall load",
  "warnings": ["specific problem with day and time"],
  "suggestions": ["specific change, naming the course and the target slot"]
}

Rules:
- Flag days with more than 6h of courses or long runs without a free slot
- Flag exams scheduled right after another exam
- Keep every string under 90 characters
- Use empty arrays when there is nothing to report`

const retryPromptTemplate = `

Your previous reply could not be parsed (%v).
Reply with the JSON object only.`

// ErrEmptyTimetable is returned when there is nothing to review.
var ErrEmptyTimetable = errors.New("timetable has no courses")

// Review is the structured answer of a timetable review.
type Review struct {
	Summary     string   `json:"summary"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// String renders the review as plain text for the terminal.
func (r *Review) String() string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(r.Summary))
	sb.WriteString("\n")
	if len(r.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "  ! %s\n", w)
		}
	}
	if len(r.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&sb, "  > %s\n", s)
		}
	}
	return sb.String()
}

// Reviewer asks an LLM to review a week of the timetable.
type Reviewer struct {
	client   Client
	attempts int
}

// ReviewerOption configures a Reviewer.
type ReviewerOption func(*Reviewer)

// WithAttempts sets how many times a malformed reply is retried, counting the
// first request. Values below 1 are ignored.
func WithAttempts(n int) ReviewerOption {
	return func(r *Reviewer) {
		if n >= 1 {
			r.attempts = n
		}
	}
}

// NewReviewer creates a Reviewer backed by client. A malformed reply is
// retried once by default.
func NewReviewer(client Client, opts ...ReviewerOption) *Reviewer {
	r := &Reviewer{client: client, attempts: 2}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuildPrompt returns the prompt sent for a review of s.
func (r *Reviewer) BuildPrompt(cal timeline.Calendar, s timeline.Schedule) Prompt {
	return Prompt{
		System: reviewerSystemPrompt,
		User: fmt.Sprintf(reviewPromptTemplate,
			dateutil.FormatClock(cal.Axis.Start()), dateutil.FormatClock(cal.Axis.End()), formatWeekData(cal, s)),
		Temperature: 0.2,
	}
}

// ReviewWeek sends the week's timetable to the LLM.
// Returns ErrEmptyTimetable when no day holds a course. A reply without valid
// JSON is retried with the decoding error appended to the prompt.
func (r *Reviewer) ReviewWeek(ctx context.Context, cal timeline.Calendar, s timeline.Schedule) (*Review, error) {
	if len(s.Courses()) == 0 {
		return nil, ErrEmptyTimetable
	}

	p := r.BuildPrompt(cal, s)
	base := p.User
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		var review Review
		err = CompleteJSON(ctx, r.client, p, &review)
		if err == nil {
			return &review, nil
		}
		if !errors.Is(err, ErrMalformedReply) {
			break
		}
		p.User = base + fmt.Sprintf(retryPromptTemplate, err)
	}
	return nil, fmt.Errorf("reviewing timetable: %w", err)
}

// formatWeekData renders the schedule in the compact form the prompt describes.
// Consecutive placeholders collapse into a single free line.
func formatWeekData(cal timeline.Calendar, s timeline.Schedule) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Week: %s - %s\n",
		cal.Week.Monday.Format("Mon Jan 2"),
		cal.Week.Sunday().Format("Mon Jan 2, 2006"))

	stats := timeline.Stats(s)
	for i, day := range s.Days() {
		seq := s[day]
		date, _ := cal.Week.DayDate(day)
		fmt.Fprintf(&sb, "\n%s (%d courses, %s busy)\n",
			date.Format("Monday Jan 2"), stats[i].Courses, formatDuration(stats[i].BusyMinutes))

		for j := 0; j < len(seq); j++ {
			b := seq[j]
			if b.IsPlaceholder() {
				k := j
				for k+1 < len(seq) && seq[k+1].IsPlaceholder() {
					k++
				}
				mins := int(seq[k].End.Sub(b.Start).Minutes())
				fmt.Fprintf(&sb, "  %s-%s free %s\n", b.StartClock(), seq[k].EndClock(), formatDuration(mins))
				j = k
				continue
			}
			room := ""
			if b.Room != "" {
				room = " (" + b.Room + ")"
			}
			fmt.Fprintf(&sb, "  %s-%s [%s] %s%s %s\n",
				b.StartClock(), b.EndClock(), b.Type, b.Name, room, formatDuration(int(b.Duration().Minutes())))
		}
	}

	return sb.String()
}

// formatDuration formats minutes as a human-readable duration.
func formatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
