package store

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Store interface {
	Project() Project
	VM() VM
	Gap() Gap
	InitialMigration() error
	Close() error
}

type DataStore struct {
	project Project
	vm      VM
	gap     Gap
	db      *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		project: NewProject(db),
		vm:      NewVM(db),
		gap:     NewGap(db),
		db:      db,
	}
}

func (s *DataStore) Project() Project {
	return s.project
}

func (s *DataStore) VM() VM {
	return s.vm
}

func (s *DataStore) Gap() Gap {
	return s.gap
}

func (s *DataStore) InitialMigration() error {
	zap.S().Named("store").Info("running initial migration")
	if err := s.Project().InitialMigration(); err != nil {
		return err
	}
	if err := s.VM().InitialMigration(); err != nil {
		return err
	}
	return s.Gap().InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
