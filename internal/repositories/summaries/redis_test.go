package summaries

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisSinkTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	sink       Sink
}

func (s *RedisSinkTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.sink = NewRedisSink(s.mockClient)
}

func (s *RedisSinkTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisSinkTestSuite(t *testing.T) {
	suite.Run(t, new(RedisSinkTestSuite))
}

func (s *RedisSinkTestSuite) testSummary() *Summary {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ended := started.Add(5 * time.Minute)
	return &Summary{
		ID:              "summary-1",
		ChannelID:       "channel-1",
		GuildID:         "guild-1",
		StartedAt:       &started,
		EndedAt:         &ended,
		Rounds:          3,
		EndReason:       "single_combatant",
		Winner:          "Rogue",
		InitiativeOrder: []string{"avatar-1", "avatar-2"},
		Combatants: []CombatantSnapshot{
			{AvatarID: "avatar-1", Name: "Rogue", CurrentHP: 4, MaxHP: 10, Initiative: 18, Side: "neutral"},
			{AvatarID: "avatar-2", Name: "Bard", CurrentHP: 0, MaxHP: 10, Initiative: 5, Side: "neutral", Conditions: []string{"unconscious"}},
		},
	}
}

func (s *RedisSinkTestSuite) TestAppend() {
	ctx := context.Background()
	summary := s.testSummary()

	expectedData, err := json.Marshal(summary)
	s.Require().NoError(err)

	s.mock.ExpectRPush("combat:summaries:channel-1", expectedData).SetVal(1)

	s.NoError(s.sink.Append(ctx, summary))
}

func (s *RedisSinkTestSuite) TestAppend_RedisError() {
	ctx := context.Background()
	summary := s.testSummary()

	expectedData, err := json.Marshal(summary)
	s.Require().NoError(err)

	s.mock.ExpectRPush("combat:summaries:channel-1", expectedData).SetErr(errors.New("connection refused"))

	s.Error(s.sink.Append(ctx, summary))
}

func (s *RedisSinkTestSuite) TestAppend_Validation() {
	ctx := context.Background()

	s.Error(s.sink.Append(ctx, nil))
	s.Error(s.sink.Append(ctx, &Summary{ID: "summary-1"}))
}
