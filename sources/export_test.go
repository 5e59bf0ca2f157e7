package sources

import "time"

// SetClock replaces the clock used to timestamp commits
func (s *Source) SetClock(now func() time.Time) {
	s.now = now
	s.state.lastCommitTime = now()
}
