package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/srs"
)

// Schema versions of the serialized scheduler state.
// Documents written before versioning carry no version field and are read as
// VersionLegacy.
const (
	VersionLegacy  = 1 // {"username": ..., "learnedWords": {"Basic": ["id", ...]}}
	VersionRecords = 2 // full review records per level
	CurrentVersion = VersionRecords
)

const dateLayout = "2006-01-02"

var (
	ErrMalformedState     = errors.New("malformed state document")
	ErrUnsupportedVersion = errors.New("unsupported state version")
)

type stateDocument struct {
	Version     int                                     `json:"version"`
	DisplayName string                                  `json:"displayName"`
	Records     map[entities.Level]map[string]recordDTO `json:"records"`
}

type recordDTO struct {
	NextReviewDue string  `json:"nextReviewDue"`
	IntervalDays  int     `json:"intervalDays"`
	EaseFactor    float64 `json:"easeFactor"`
	Repetitions   int     `json:"repetitions"`
}

// legacyDocument is only recognised when learnedWords is present.
type legacyDocument struct {
	Username     string                       `json:"username"`
	LearnedWords *map[entities.Level][]string `json:"learnedWords"`
}

// EncodeState serializes a state with the current schema version.
func EncodeState(s *entities.SchedulerState) ([]byte, error) {
	doc := stateDocument{
		Version:     CurrentVersion,
		DisplayName: s.DisplayName,
		Records:     make(map[entities.Level]map[string]recordDTO, len(s.Records)),
	}

	for level, bucket := range s.Records {
		out := make(map[string]recordDTO, len(bucket))
		for id, r := range bucket {
			out[id] = recordDTO{
				NextReviewDue: srs.Date(r.NextReviewDue).Format(dateLayout),
				IntervalDays:  r.IntervalDays,
				EaseFactor:    r.EaseFactor,
				Repetitions:   r.Repetitions,
			}
		}
		doc.Records[level] = out
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses a stored document of any known version.
// Legacy documents are upgraded with asOf as the migration date and reported
// through migrated so the caller can write the upgraded form back once.
func DecodeState(data []byte, asOf time.Time) (state *entities.SchedulerState, migrated bool, err error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	version := VersionLegacy
	if head.Version != nil {
		version = *head.Version
	}

	switch version {
	case VersionLegacy:
		state, err = decodeLegacy(data, asOf)
		return state, err == nil, err
	case VersionRecords:
		state, err = decodeRecords(data)
		return state, false, err
	default:
		return nil, false, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
}

func decodeRecords(data []byte) (*entities.SchedulerState, error) {
	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	state := entities.NewSchedulerState(doc.DisplayName)
	for rawLevel, bucket := range doc.Records {
		level, err := entities.ParseLevel(string(rawLevel))
		if err != nil {
			return nil, fmt.Errorf("%w: level %q", ErrMalformedState, rawLevel)
		}

		for id, dto := range bucket {
			due, err := time.Parse(dateLayout, dto.NextReviewDue)
			if err != nil {
				return nil, fmt.Errorf("%w: due date of %q: %v", ErrMalformedState, id, err)
			}

			r := entities.ReviewRecord{
				NextReviewDue: due,
				IntervalDays:  max(dto.IntervalDays, 1),
				EaseFactor:    max(dto.EaseFactor, entities.MinEaseFactor),
				Repetitions:   max(dto.Repetitions, 0),
			}
			state.Put(level, id, r)
		}
	}

	return state, nil
}

func decodeLegacy(data []byte, asOf time.Time) (*entities.SchedulerState, error) {
	var doc legacyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	if doc.LearnedWords == nil {
		return nil, fmt.Errorf("%w: neither version nor learnedWords", ErrMalformedState)
	}

	state := entities.NewSchedulerState(doc.Username)
	for rawLevel, ids := range *doc.LearnedWords {
		level, err := entities.ParseLevel(string(rawLevel))
		if err != nil {
			return nil, fmt.Errorf("%w: level %q", ErrMalformedState, rawLevel)
		}

		for _, id := range ids {
			state.Put(level, id, legacyRecord(asOf))
		}
	}

	return state, nil
}

// legacyRecord is the record synthesized for a word the old schema only knew as "learned".
func legacyRecord(asOf time.Time) entities.ReviewRecord {
	return entities.ReviewRecord{
		NextReviewDue: srs.AddDays(asOf, 1),
		IntervalDays:  entities.InitialIntervalDays,
		EaseFactor:    entities.InitialEaseFactor,
		Repetitions:   1,
	}
}
