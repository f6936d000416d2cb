package server

import (
	"testing"

	"teamplan/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestStartRejectsInvalidPort(t *testing.T) {
	cfg := &config.Config{}
	cfg.API.Port = "not-a-port"

	err := New(cfg, nil).Start()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port number")
}
