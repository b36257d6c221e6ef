// Package refdata loads the static JSON reference tables the skills read.
// Files are read per call, mirroring the append-only, process-lifetime
// semantics of the source data: a missing or corrupt file is an
// infrastructure error the skill layer converts into a structured payload.
package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) load(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read reference data %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode reference data %s: %w", name, err)
	}
	return nil
}

func (s *Store) Orders() ([]Order, error) {
	var out []Order
	if err := s.load("orders.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Policies() (*Policies, error) {
	var out Policies
	if err := s.load("policies.json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) FAQs() ([]FAQ, error) {
	var out []FAQ
	if err := s.load("faqs.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) WorkOrders() ([]WorkOrder, error) {
	var out []WorkOrder
	if err := s.load("work_orders.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Equipment() ([]Equipment, error) {
	var out []Equipment
	if err := s.load("equipment.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Materials() ([]Material, error) {
	var out []Material
	if err := s.load("materials.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) KnowledgeBase() ([]KBEntry, error) {
	var out []KBEntry
	if err := s.load("knowledge_base.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}
