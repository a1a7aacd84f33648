package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockMigrator struct {
	mock.Mock
}

func (m *mockMigrator) Up() error         { return m.Called().Error(0) }
func (m *mockMigrator) Down() error       { return m.Called().Error(0) }
func (m *mockMigrator) Steps(n int) error { return m.Called(n).Error(0) }
func (m *mockMigrator) Force(v int) error { return m.Called(v).Error(0) }
func (m *mockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
		setup   func(m *mockMigrator)
		wantErr string
	}{
		{name: "up", command: "up", setup: func(m *mockMigrator) { m.On("Up").Return(nil) }},
		{name: "down", command: "down", setup: func(m *mockMigrator) { m.On("Down").Return(nil) }},
		{name: "steps", command: "steps", args: []string{"-1"}, setup: func(m *mockMigrator) { m.On("Steps", -1).Return(nil) }},
		{name: "steps missing arg", command: "steps", wantErr: "step count required"},
		{name: "steps bad arg", command: "steps", args: []string{"x"}, wantErr: `invalid step count "x"`},
		{name: "force", command: "force", args: []string{"2"}, setup: func(m *mockMigrator) { m.On("Force", 2).Return(nil) }},
		{name: "up fails", command: "up", setup: func(m *mockMigrator) { m.On("Up").Return(errors.New("dirty")) }, wantErr: "dirty"},
		{name: "unknown", command: "sideways", wantErr: `unknown command "sideways"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mockMigrator)
			if tt.setup != nil {
				tt.setup(m)
			}

			err := execute(m, tt.command, tt.args, zap.NewNop())
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestExecute_Version(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		m := new(mockMigrator)
		m.On("Version").Return(uint(3), false, nil)

		assert.NoError(t, execute(m, "version", nil, zap.New(core)))
		entries := logs.FilterMessage("current migration version").All()
		assert.Len(t, entries, 1)
		assert.Equal(t, uint64(3), entries[0].ContextMap()["version"])
	})

	t.Run("fresh database", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		m := new(mockMigrator)
		m.On("Version").Return(uint(0), false, nil)

		assert.NoError(t, execute(m, "version", nil, zap.New(core)))
		assert.Equal(t, 1, logs.FilterMessage("no migrations applied").Len())
	})
}
