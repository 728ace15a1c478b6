package entities

// SchedulerState holds every review record of one identity.
// It is owned by the session that loaded it and is never shared between identities.
type SchedulerState struct {
	DisplayName string
	Records     map[Level]map[string]ReviewRecord
}

// NewSchedulerState returns an empty state with a bucket for every level.
func NewSchedulerState(displayName string) *SchedulerState {
	s := &SchedulerState{
		DisplayName: displayName,
		Records:     make(map[Level]map[string]ReviewRecord, len(Levels)),
	}
	for _, l := range Levels {
		s.Records[l] = make(map[string]ReviewRecord)
	}
	return s
}

// Record returns the record of a fact within a level.
func (s *SchedulerState) Record(level Level, factID string) (ReviewRecord, bool) {
	if s == nil {
		return ReviewRecord{}, false
	}
	r, ok := s.Records[level][factID]
	return r, ok
}

// Put stores a record, creating the level bucket if needed.
func (s *SchedulerState) Put(level Level, factID string, r ReviewRecord) {
	if s.Records == nil {
		s.Records = make(map[Level]map[string]ReviewRecord)
	}
	bucket, ok := s.Records[level]
	if !ok {
		bucket = make(map[string]ReviewRecord)
		s.Records[level] = bucket
	}
	bucket[factID] = r
}

// FactIDs returns the ids of every fact introduced within a level.
func (s *SchedulerState) FactIDs(level Level) []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Records[level]))
	for id := range s.Records[level] {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of records within a level.
func (s *SchedulerState) Count(level Level) int {
	if s == nil {
		return 0
	}
	return len(s.Records[level])
}

// Clone returns a deep copy.
func (s *SchedulerState) Clone() *SchedulerState {
	if s == nil {
		return nil
	}
	c := &SchedulerState{
		DisplayName: s.DisplayName,
		Records:     make(map[Level]map[string]ReviewRecord, len(s.Records)),
	}
	for l, bucket := range s.Records {
		cb := make(map[string]ReviewRecord, len(bucket))
		for id, r := range bucket {
			cb[id] = r
		}
		c.Records[l] = cb
	}
	return c
}
