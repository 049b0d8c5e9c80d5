package response

import "github.com/andreyxaxa/Photo-Pipeline/internal/entity"

type Notification struct {
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Results   []EventResult `json:"results"`
}

type EventResult struct {
	SourceKey    string `json:"source_key"`
	Status       string `json:"status"`
	PhotoKey     string `json:"photo_key,omitempty"`
	ThumbnailKey string `json:"thumbnail_key,omitempty"`
	Warning      string `json:"warning,omitempty"`
	Error        string `json:"error,omitempty"`
}

func NewNotification(res *entity.BatchResult, skipped []entity.UploadEvent) Notification {
	out := Notification{
		Failed:  res.Failed(),
		Skipped: len(skipped),
		Results: make([]EventResult, 0, len(res.Results)+len(skipped)),
	}
	out.Processed = len(res.Results) - out.Failed

	for _, r := range res.Results {
		er := EventResult{
			SourceKey: r.Event.SourceKey,
			Status:    string(r.Status()),
		}

		if r.Err != nil {
			er.Error = r.Err.Error()
		} else {
			er.PhotoKey = r.Record.PhotoKey
			er.ThumbnailKey = r.Record.ThumbnailKey
			er.Warning = r.Record.Warning.OrElse("")
		}

		out.Results = append(out.Results, er)
	}

	for _, e := range skipped {
		out.Results = append(out.Results, EventResult{
			SourceKey: e.SourceKey,
			Status:    string(entity.Skipped),
		})
	}

	return out
}
