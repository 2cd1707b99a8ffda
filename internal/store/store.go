package store

import (
	"gorm.io/gorm"

	"github.com/contentforge/article-engine/internal/store/model"
)

type Store interface {
	Job() Job
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db  *gorm.DB
	job Job
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:  db,
		job: NewJobStore(db),
	}
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{})
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
