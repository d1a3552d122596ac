package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/mailer"
)

// Publisher records every job handed to the queue.
type Publisher struct {
	mu   sync.Mutex
	Jobs []mailer.EmailJob
	Err  error
}

func (p *Publisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var job mailer.EmailJob
	if err := json.Unmarshal(b, &job); err != nil {
		return err
	}
	p.Jobs = append(p.Jobs, job)
	return nil
}

// Published returns a copy of the recorded jobs.
func (p *Publisher) Published() []mailer.EmailJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mailer.EmailJob(nil), p.Jobs...)
}

// Notifier records lifecycle emails synchronously.
type Notifier struct {
	mu        sync.Mutex
	Welcomes  []string
	Farewells []string
}

func (n *Notifier) Welcome(u *entity.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Welcomes = append(n.Welcomes, u.Email)
}

func (n *Notifier) Farewell(u *entity.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Farewells = append(n.Farewells, u.Email)
}

// Mirror is an in-memory avatar mirror.
type Mirror struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func (m *Mirror) Put(_ context.Context, userID string, png []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if m.Objects == nil {
		m.Objects = map[string][]byte{}
	}
	m.Objects[userID] = png
	return "https://cdn.test/avatars/" + userID + ".png", nil
}

func (m *Mirror) Remove(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, userID)
	return m.Err
}

// SearchIndex is a substring-matching stand-in for the Elasticsearch index.
type SearchIndex struct {
	mu   sync.Mutex
	Docs map[string]entity.Task
	Err  error
}

var ErrIndexDown = errors.New("index unavailable")

func (x *SearchIndex) Index(_ context.Context, t *entity.Task) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Err != nil {
		return x.Err
	}
	if x.Docs == nil {
		x.Docs = map[string]entity.Task{}
	}
	x.Docs[t.ID] = *t
	return nil
}

func (x *SearchIndex) Delete(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.Docs, id)
	return x.Err
}

func (x *SearchIndex) DeleteByOwner(_ context.Context, owner string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for id, t := range x.Docs {
		if t.Owner == owner {
			delete(x.Docs, id)
		}
	}
	return x.Err
}

func (x *SearchIndex) Search(_ context.Context, owner, query string, size int) ([]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Err != nil {
		return nil, x.Err
	}
	var ids []string
	for id, t := range x.Docs {
		if t.Owner == owner && strings.Contains(strings.ToLower(t.Description), strings.ToLower(query)) {
			ids = append(ids, id)
		}
		if len(ids) == size {
			break
		}
	}
	return ids, nil
}

var (
	_ repository.AvatarMirror    = (*Mirror)(nil)
	_ repository.TaskSearchIndex = (*SearchIndex)(nil)
)
