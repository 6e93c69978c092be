package lcireport

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aidansteele/lcireport/lcitest"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time {
	return time.Date(2014, time.March, 4, 15, 7, 9, 0, time.UTC)
}

const expectedReport = `------ Start 3/4/2014 3:07:09 PM
Message ID: 48213
Message String: Unable to open file %1 for writing.
Tech Notes: Raised by the export dialog when the target is read only.
Severity: Error
State: Active
Content Needed: 1
Content Description: The file could not be saved.
Content Resolution: Choose a writable folder & try again.
Content Internal Notes: 
Components: Export, File IO, UI, 
Subcomponent: Export Dialog
Last Build: 7.2.0.1184 (2014-03-02 18:41:07)
First Build: 6.0.0.412 (2012-11-20 09:03:55)
------ End 3/4/2014 3:07:09 PM
`

func TestReportRun(t *testing.T) {
	srv := lcitest.NewServer(t, fixtureRoutes(t))
	lci := New(NewHttpClient(), srv.BaseUrl(), zerolog.Nop())

	out := &bytes.Buffer{}
	err := NewReport(lci, out).WithClock(fixedClock).Run(context.Background(), 48213)
	require.NoError(t, err)
	assert.Equal(t, expectedReport, out.String())
	assert.Equal(t, []string{messagePath, componentsPath, lastBuildPath, firstBuildPath}, srv.Paths())

	again := &bytes.Buffer{}
	err = NewReport(lci, again).WithClock(fixedClock).Run(context.Background(), 48213)
	require.NoError(t, err)
	assert.Equal(t, out.String(), again.String())
}

func TestReportStopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		name     string
		failPath string
		requests []string
		lastLine string
	}{
		{"message", messagePath, []string{messagePath}, "------ Start 3/4/2014 3:07:09 PM"},
		{"components", componentsPath, []string{messagePath, componentsPath}, "Content Internal Notes: "},
		{"last build", lastBuildPath, []string{messagePath, componentsPath, lastBuildPath}, "Components: Export, File IO, UI, "},
		{"first build", firstBuildPath, []string{messagePath, componentsPath, lastBuildPath, firstBuildPath}, "Components: Export, File IO, UI, "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes := fixtureRoutes(t)
			routes[tt.failPath] = lcitest.Response{Status: 500, Body: "boom"}
			srv := lcitest.NewServer(t, routes)
			lci := New(NewHttpClient(), srv.BaseUrl(), zerolog.Nop())

			out := &bytes.Buffer{}
			err := NewReport(lci, out).WithClock(fixedClock).Run(context.Background(), 48213)
			require.Error(t, err)
			assert.Equal(t, tt.requests, srv.Paths())

			lines := bytes.Split(bytes.TrimSuffix(out.Bytes(), []byte("\n")), []byte("\n"))
			assert.Equal(t, tt.lastLine, string(lines[len(lines)-1]))
			assert.NotContains(t, out.String(), "------ End")
		})
	}
}

type fakeSource struct {
	msg        Message
	components []string
	jobs       BuildJobs
	msgErr     error
	err        error

	gotInstanceId int32
}

func (f *fakeSource) Message(ctx context.Context, messageId uint32) (Message, error) {
	return f.msg, f.msgErr
}

func (f *fakeSource) Components(ctx context.Context, messageId uint32) ([]string, error) {
	return f.components, f.err
}

func (f *fakeSource) BuildJobs(ctx context.Context, messageId uint32, currentMessageInstanceId int32) (BuildJobs, error) {
	f.gotInstanceId = currentMessageInstanceId
	return f.jobs, nil
}

func TestReportPassesInstanceIdForward(t *testing.T) {
	src := &fakeSource{msg: Message{CurrentMessageInstanceId: -12}}

	err := NewReport(src, &bytes.Buffer{}).Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int32(-12), src.gotInstanceId)
}

func TestReportReturnsSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("components unavailable")}

	err := NewReport(src, &bytes.Buffer{}).Run(context.Background(), 7)
	assert.EqualError(t, err, "components unavailable")
	assert.Zero(t, src.gotInstanceId)
}

func TestReportPrintsMessageBeforeInstanceIdError(t *testing.T) {
	src := &fakeSource{
		msg:    Message{Id: "7", State: "Open"},
		msgErr: errors.Wrap(ErrMissingInstanceId, "message 7"),
	}

	out := &bytes.Buffer{}
	err := NewReport(src, out).WithClock(fixedClock).Run(context.Background(), 7)
	require.True(t, errors.Is(err, ErrMissingInstanceId))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "Message ID: 7", lines[1])
	assert.Equal(t, "State: Open", lines[5])
	assert.Equal(t, "Content Internal Notes: ", lines[9])
	assert.NotContains(t, out.String(), "Components:")
}

func TestReportPrintsNothingForFailedMessageFetch(t *testing.T) {
	src := &fakeSource{
		msg:    Message{Id: "7"},
		msgErr: errors.New("connection refused"),
	}

	out := &bytes.Buffer{}
	err := NewReport(src, out).WithClock(fixedClock).Run(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, "------ Start 3/4/2014 3:07:09 PM\n", out.String())
}

func TestWriteComponents(t *testing.T) {
	tests := []struct {
		components []string
		want       string
	}{
		{nil, "Components: \n"},
		{[]string{"Audio"}, "Components: Audio, \n"},
		{[]string{"Audio", "", "Video"}, "Components: Audio, , Video, \n"},
	}

	for _, tt := range tests {
		out := &bytes.Buffer{}
		WriteComponents(out, tt.components)
		assert.Equal(t, tt.want, out.String())
	}
}

func TestWriteBuildJobsUsesLastForSubcomponent(t *testing.T) {
	out := &bytes.Buffer{}
	WriteBuildJobs(out, BuildJobs{
		Last:  BuildJob{ComponentName: "new", Label: "2.0", Created: "b"},
		First: BuildJob{ComponentName: "old", Label: "1.0", Created: "a"},
	})

	assert.Equal(t, "Subcomponent: new\nLast Build: 2.0 (b)\nFirst Build: 1.0 (a)\n", out.String())
}
