package in_memory_repo

import (
	"testing"

	"wishbot/internal/repository"
	"wishbot/internal/repository/repositorytest"
)

func TestInMemoryRepo(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T, clock *repositorytest.Clock) repository.Repository {
		return NewWithClock(clock.Now)
	})
}
