package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hotelops/reclamations-backend/pkg/onesignal"
)

func TestPurgeTargets(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	players := []onesignal.Player{
		{ID: "fresh", LastActive: now.Add(-time.Hour).Unix()},
		{ID: "stale", LastActive: now.Add(-40 * 24 * time.Hour).Unix()},
		{ID: "invalid", LastActive: now.Unix(), InvalidID: true},
	}

	assert.Len(t, purgeTargets(players, now, 0), 3)

	ids := []string{}
	for _, p := range purgeTargets(players, now, 30) {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"stale", "invalid"}, ids)
}
