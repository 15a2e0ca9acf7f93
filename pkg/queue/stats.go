package queue

import "github.com/dmitrymomot/metaqueue/pkg/itemstate"

// Statistics summarises the queue.
type Statistics struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	// Progress is round(Completed/Total*100), 0 for an empty queue.
	Progress int `json:"progress"`
}

// Done reports whether nothing is pending or processing.
func (s Statistics) Done() bool {
	return s.Pending == 0 && s.Processing == 0
}

func computeStats(items []*Item) Statistics {
	s := Statistics{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case itemstate.Pending:
			s.Pending++
		case itemstate.Processing:
			s.Processing++
		case itemstate.Completed:
			s.Completed++
		case itemstate.Error:
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.Progress = (s.Completed*200 + s.Total) / (2 * s.Total)
	}
	return s
}
