package compose

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
)

// Session is one user's interactive pagination state over a listing set.
// Sessions live in a TTL cache, so an abandoned browse simply expires.
type Session struct {
	Results  []jobsearch.Result
	Index    int
	FilterBy string
	City     string
}

// Current returns the listing under the cursor.
func (s Session) Current() (jobsearch.Result, bool) {
	if len(s.Results) == 0 || s.Index < 0 || s.Index >= len(s.Results) {
		return jobsearch.Result{}, false
	}
	return s.Results[s.Index], true
}

// Next advances the cursor, wrapping around circularly.
func (s *Session) Next() {
	if len(s.Results) == 0 {
		return
	}
	s.Index = (s.Index + 1) % len(s.Results)
}

// Previous moves the cursor back, wrapping around circularly.
func (s *Session) Previous() {
	if len(s.Results) == 0 {
		return
	}
	s.Index = (s.Index - 1 + len(s.Results)) % len(s.Results)
}

// Remove deletes the listing under the cursor and clamps the index.
func (s *Session) Remove() {
	if len(s.Results) == 0 {
		return
	}
	s.Results = append(s.Results[:s.Index], s.Results[s.Index+1:]...)
	if s.Index >= len(s.Results) && s.Index > 0 {
		s.Index = len(s.Results) - 1
	}
}

// JobAlertFlow carries the multi-step job-alert creation state between
// otherwise stateless interaction callbacks (modal -> email choice -> modal).
type JobAlertFlow struct {
	Repeat   string
	FilterBy string
	Duration string
}

// Sessions stores per-user interactive state, gob-encoded in a TTL cache.
type Sessions struct {
	store *bigcache.BigCache
}

func NewSessions(ttl time.Duration) (*Sessions, error) {
	store, err := bigcache.NewBigCache(bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, err
	}
	return &Sessions{store: store}, nil
}

func (s *Sessions) Get(userID string) (Session, bool) {
	var sess Session
	ok := s.get("page:"+userID, &sess)
	return sess, ok
}

func (s *Sessions) Put(userID string, sess Session) error {
	return s.put("page:"+userID, sess)
}

func (s *Sessions) Delete(userID string) {
	_ = s.store.Delete("page:" + userID)
}

func (s *Sessions) GetFlow(userID string) (JobAlertFlow, bool) {
	var flow JobAlertFlow
	ok := s.get("flow:"+userID, &flow)
	return flow, ok
}

func (s *Sessions) PutFlow(userID string, flow JobAlertFlow) error {
	return s.put("flow:"+userID, flow)
}

func (s *Sessions) DeleteFlow(userID string) {
	_ = s.store.Delete("flow:" + userID)
}

func (s *Sessions) get(key string, out interface{}) bool {
	raw, err := s.store.Get(key)
	if err != nil {
		return false
	}
	return gob.NewDecoder(bytes.NewReader(raw)).Decode(out) == nil
}

func (s *Sessions) put(key string, val interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(val); err != nil {
		return err
	}
	return s.store.Set(key, buf.Bytes())
}
