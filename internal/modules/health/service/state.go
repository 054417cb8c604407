package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	activeStreams atomic.Int64
	lastTickUnix  atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) StreamOpened(string)   { s.activeStreams.Add(1) }
func (s *State) StreamClosed(string)   { s.activeStreams.Add(-1) }
func (s *State) ActiveStreams() int64  { return s.activeStreams.Load() }
func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}
