package lcireport

// Message is the subset of an LCI message shown in a report. The message
// string, tech notes and severity come from the current instance, i.e. the
// latest revision developers made to the message.
type Message struct {
	Id                       string
	String                   string
	TechNotes                string
	Severity                 string
	State                    string
	NeedsContent             string
	ContentDescription       string
	ContentResolution        string
	ContentInternalNotes     string
	CurrentMessageInstanceId int32
}

type BuildJob struct {
	ComponentName string // subcomponent the job was imported under
	Label         string // main build artifact label
	Created       string
}

type BuildJobs struct {
	Last  BuildJob
	First BuildJob
}
