package lcireport

import (
	"context"
	"fmt"
	"github.com/pkg/errors"
	"io"
	"strings"
	"time"
)

// BannerTimeFormat renders the start/end banner timestamps.
const BannerTimeFormat = "1/2/2006 3:04:05 PM"

type Source interface {
	Message(ctx context.Context, messageId uint32) (Message, error)
	Components(ctx context.Context, messageId uint32) ([]string, error)
	BuildJobs(ctx context.Context, messageId uint32, currentMessageInstanceId int32) (BuildJobs, error)
}

type Report struct {
	source Source
	out    io.Writer
	now    func() time.Time
}

func NewReport(source Source, out io.Writer) *Report {
	return &Report{source: source, out: out, now: time.Now}
}

// WithClock replaces the clock used for the banner lines.
func (r *Report) WithClock(now func() time.Time) *Report {
	r.now = now
	return r
}

// Run prints the report for messageId. Each stage is written out as soon as
// it succeeds and the first failure ends the run without the closing banner.
// A message without a usable instance id still gets its basic lines printed.
func (r *Report) Run(ctx context.Context, messageId uint32) error {
	fmt.Fprintf(r.out, "------ Start %s\n", r.now().Format(BannerTimeFormat))

	msg, err := r.source.Message(ctx, messageId)
	if errors.Is(err, ErrMissingInstanceId) {
		WriteMessage(r.out, msg)
		return err
	}
	if err != nil {
		return err
	}
	WriteMessage(r.out, msg)

	components, err := r.source.Components(ctx, messageId)
	if err != nil {
		return err
	}
	WriteComponents(r.out, components)

	jobs, err := r.source.BuildJobs(ctx, messageId, msg.CurrentMessageInstanceId)
	if err != nil {
		return err
	}
	WriteBuildJobs(r.out, jobs)

	fmt.Fprintf(r.out, "------ End %s\n", r.now().Format(BannerTimeFormat))
	return nil
}

func WriteMessage(w io.Writer, m Message) {
	fmt.Fprintf(w, "Message ID: %s\n", m.Id)
	fmt.Fprintf(w, "Message String: %s\n", m.String)
	fmt.Fprintf(w, "Tech Notes: %s\n", m.TechNotes)
	fmt.Fprintf(w, "Severity: %s\n", m.Severity)
	fmt.Fprintf(w, "State: %s\n", m.State)
	fmt.Fprintf(w, "Content Needed: %s\n", m.NeedsContent)
	fmt.Fprintf(w, "Content Description: %s\n", m.ContentDescription)
	fmt.Fprintf(w, "Content Resolution: %s\n", m.ContentResolution)
	fmt.Fprintf(w, "Content Internal Notes: %s\n", m.ContentInternalNotes)
}

// WriteComponents leaves a ", " after every component, including the last.
func WriteComponents(w io.Writer, components []string) {
	b := &strings.Builder{}
	for _, c := range components {
		b.WriteString(c)
		b.WriteString(", ")
	}

	fmt.Fprintf(w, "Components: %s\n", b.String())
}

func WriteBuildJobs(w io.Writer, jobs BuildJobs) {
	fmt.Fprintf(w, "Subcomponent: %s\n", jobs.Last.ComponentName)
	fmt.Fprintf(w, "Last Build: %s (%s)\n", jobs.Last.Label, jobs.Last.Created)
	fmt.Fprintf(w, "First Build: %s (%s)\n", jobs.First.Label, jobs.First.Created)
}
