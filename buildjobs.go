package lcireport

import (
	"context"
	"fmt"
)

type sortDirection string

const (
	ascending  sortDirection = "ASC"
	descending sortDirection = "DESC"
)

// BuildJobs fetches the newest build job of the current message instance and
// the oldest build job of the message as a whole. limit/1 is what makes each
// list call return a single extreme; limit/0 would return every job.
func (l *Lci) BuildJobs(ctx context.Context, messageId uint32, currentMessageInstanceId int32) (BuildJobs, error) {
	last, err := l.buildJob(ctx, "messageInstanceId", int64(currentMessageInstanceId), descending)
	if err != nil {
		return BuildJobs{}, err
	}

	first, err := l.buildJob(ctx, "messageId", int64(messageId), ascending)
	if err != nil {
		return BuildJobs{}, err
	}

	return BuildJobs{Last: last, First: first}, nil
}

func (l *Lci) buildJob(ctx context.Context, filter string, id int64, dir sortDirection) (BuildJob, error) {
	url := fmt.Sprintf(
		"%s/build-job-import/list-build-job-message-instance/%s/%d/limit/1/format/xml/sortField/buildJobId/sortDirection/%s",
		l.baseUrl, filter, id, dir,
	)

	root, err := l.getXml(ctx, url)
	if err != nil {
		return BuildJob{}, err
	}

	f := fields{root: root}
	job := BuildJob{
		ComponentName: f.get("item/componentName"),
		Label:         f.get("item/buildJob/mainBuildArtifact/label"),
		Created:       f.get("item/buildJob/created"),
	}

	return job, f.err
}
