package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamehub/internal/client"
	"github.com/mcoot/gamehub/internal/protocol"
	"github.com/mcoot/gamehub/internal/server"
	"github.com/mcoot/gamehub/internal/services/catalog"
	"github.com/mcoot/gamehub/internal/services/lobby"
	"github.com/mcoot/gamehub/internal/testutil"
)

// IntegrationSuite boots the whole stack: factory-wired app, TCP lobby
// server, and real clients over the wire protocol.
type IntegrationSuite struct {
	suite.Suite
	app    *TestApp
	server *server.Server
	addr   string
	ctx    context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	app, err := NewTestApp()
	s.Require().NoError(err)
	s.app = app
	s.ctx = context.Background()
	s.Require().NoError(s.app.Hub.Load(s.ctx))

	s.server = server.New(s.app.Hub, s.app.Catalog, testutil.NopLogger())
	s.Require().NoError(s.server.Listen("127.0.0.1:0"))
	s.addr = s.server.Addr().String()
	go func() { _ = s.server.Serve() }()
}

func (s *IntegrationSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.server.Shutdown(ctx))
	s.app.Cleanup()
}

func (s *IntegrationSuite) dial() *client.Client {
	s.T().Helper()
	c, err := client.Dial(s.addr)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = c.Close() })
	return c
}

// Test: complete platform flow from game publishing to post-match review
func (s *IntegrationSuite) TestCompletePlatformFlow() {
	// Step 1: a developer publishes a game
	dev := s.dial()
	s.Require().NoError(dev.Register("dev", "devpass", "developer"))
	_, err := dev.Login("dev", "devpass", "developer")
	s.Require().NoError(err)

	pkg, err := catalog.BuildZip(map[string][]byte{
		"connect4_server.py": []byte("# server\n"),
		"connect4_client.py": []byte("# client\n"),
	})
	s.Require().NoError(err)
	s.Require().NoError(dev.UploadGame(protocol.UploadGameRequest{
		Name:        "connect4",
		Description: "four in a row",
		MaxPlayers:  2,
	}, pkg))

	// Step 2: two players find it and download it
	alice := s.dial()
	s.Require().NoError(alice.Register("alice", "pw", "player"))
	_, err = alice.Login("alice", "pw", "player")
	s.Require().NoError(err)

	bob := s.dial()
	s.Require().NoError(bob.Register("bob", "pw", "player"))
	_, err = bob.Login("bob", "pw", "player")
	s.Require().NoError(err)

	games, err := alice.ListGames()
	s.Require().NoError(err)
	s.Require().Len(games, 1)

	_, downloaded, err := alice.DownloadGame("connect4", "")
	s.Require().NoError(err)
	s.Equal(pkg, downloaded)

	// Step 3: room up, bob joins, host starts the match
	room, err := alice.CreateRoom("connect4", "")
	s.Require().NoError(err)

	_, err = bob.JoinRoom(room.RoomID)
	s.Require().NoError(err)

	match, err := alice.StartGame(room.RoomID)
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, match.Players)
	s.NotZero(match.GameServerPort)

	// The fake game server got the extracted entry point
	launches := s.app.FakeLauncher.Launches()
	s.Require().Len(launches, 1)
	s.Equal(match.GameServerPort, launches[0].Port)

	// Step 4: the match ends, the room reverts, reviews open up
	s.app.FakeLauncher.LastProcess().Exit(nil)
	s.Eventually(func() bool {
		rooms, err := bob.ListRooms()
		return err == nil && len(rooms) == 1 && rooms[0].Status == "waiting"
	}, 2*time.Second, 10*time.Millisecond)

	s.Require().NoError(bob.AddReview("connect4", 4, "solid"))

	reviews, err := alice.GetReviews("connect4")
	s.Require().NoError(err)
	s.Require().Len(reviews.Reviews, 1)
	s.Equal(4, reviews.Reviews[0].Rating)
}

// Test: persisted state survives a lobby restart
func (s *IntegrationSuite) TestStateSurvivesRestart() {
	c := s.dial()
	s.Require().NoError(c.Register("alice", "pw", "player"))
	_, err := c.Login("alice", "pw", "player")
	s.Require().NoError(err)

	// Simulate a crash: shut the server down with alice still online
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	s.Require().NoError(s.server.Shutdown(ctx))

	// Rebuild the hub over the same store, as a restart would
	rebuilt := newWithDependencies(
		s.app.Storage,
		s.app.MockClock,
		s.app.Random,
		s.app.FakeLauncher,
		lobby.Config{PortStart: 10000, PortEnd: 10999, ReadyTimeout: time.Second},
		s.app.packageDir,
		testutil.NopLogger(),
	)
	s.Require().NoError(rebuilt.Hub.Load(s.ctx))

	s.server = server.New(rebuilt.Hub, rebuilt.Catalog, testutil.NopLogger())
	s.Require().NoError(s.server.Listen("127.0.0.1:0"))
	s.addr = s.server.Addr().String()
	go func() { _ = s.server.Serve() }()

	// The account survives and the stale online flag was cleared
	c2 := s.dial()
	_, err = c2.Login("alice", "pw", "player")
	s.Require().NoError(err)
}
