package testutil

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	ports "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
)

// FakeRemoteStore is an in-memory RemoteStore. Addresses listed in FailOn
// reject creates. Like a real client, every call fails once its context is
// done. Deleting an address also removes everything nested below it.
type FakeRemoteStore struct {
	mu        sync.Mutex
	resources map[string]*ports.Resource
	version   int

	FailOn map[string]error
	// BeforeCreate, when set, runs at the start of every Create.
	BeforeCreate func(address string)
	Creates      []string
	Deletes      []string
}

func NewFakeRemoteStore(existing ...string) *FakeRemoteStore {
	s := &FakeRemoteStore{
		resources: make(map[string]*ports.Resource),
		FailOn:    make(map[string]error),
	}
	for _, address := range existing {
		s.put(address, nil)
	}
	return s
}

func (s *FakeRemoteStore) put(address string, payload []byte) {
	s.version++
	s.resources[address] = &ports.Resource{
		Address:          address,
		Payload:          payload,
		ConcurrencyToken: strconv.Itoa(s.version),
	}
}

func (s *FakeRemoteStore) Read(ctx context.Context, address string) (*ports.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.resources[address]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	copied := *res
	return &copied, nil
}

func (s *FakeRemoteStore) Create(ctx context.Context, address string, payload []byte, _ ports.ContentType) error {
	if s.BeforeCreate != nil {
		s.BeforeCreate(address)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.FailOn[address]; ok {
		return err
	}
	s.Creates = append(s.Creates, address)
	s.put(address, payload)
	return nil
}

func (s *FakeRemoteStore) Delete(ctx context.Context, address, concurrencyToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.resources[address]
	if !ok {
		return domain.ErrResourceNotFound
	}
	if res.ConcurrencyToken != concurrencyToken {
		return fmt.Errorf("%w: stale token %s", domain.ErrResourceConflict, concurrencyToken)
	}
	s.Deletes = append(s.Deletes, address)
	for existing := range s.resources {
		if existing == address || strings.HasPrefix(existing, strings.TrimRight(address, "/")+"/") {
			delete(s.resources, existing)
		}
	}
	return nil
}

// Has reports whether a resource exists at address.
func (s *FakeRemoteStore) Has(address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.resources[address]
	return ok
}

func (s *FakeRemoteStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resources)
}
