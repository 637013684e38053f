package lobby_test

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/lobby"
)

// startableRoom sets up a two-player waiting room for connect4
func (s *HubSuite) startableRoom() model.RoomID {
	s.T().Helper()
	s.publishGame("connect4", 4)
	s.login("alice")
	s.login("bob")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)
	_, err = s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.Require().NoError(err)
	return room.ID
}

func (s *HubSuite) TestStartGame() {
	roomID := s.startableRoom()

	match, err := s.hub.StartGame(s.ctx, "alice", roomID)
	s.Require().NoError(err)

	s.Equal(roomID, match.RoomID)
	s.Equal(10000, match.Port)
	s.Equal([]string{"alice", "bob"}, match.Players)

	room, err := s.hub.GetRoom(roomID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, room.Status)
	s.Equal(10000, room.GameServerPort)

	// The spawned process got the resolved entry point and port
	launches := s.launcher.Launches()
	s.Require().Len(launches, 1)
	s.Equal("connect4_server.py", filepath.Base(launches[0].Entry))
	s.Equal(10000, launches[0].Port)

	// Every member got a play record
	for _, player := range []string{"alice", "bob"} {
		records, err := s.catalog.PlayerRecords(s.ctx, player)
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal("connect4", records[0].GameName)
		s.Equal("1.0.0", records[0].GameVersion)
	}
}

func (s *HubSuite) TestStartGameOnlyHost() {
	roomID := s.startableRoom()

	_, err := s.hub.StartGame(s.ctx, "bob", roomID)
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *HubSuite) TestStartGameNeedsTwoPlayers() {
	s.publishGame("connect4", 4)
	s.login("alice")
	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)

	_, err = s.hub.StartGame(s.ctx, "alice", room.ID)
	s.ErrorIs(err, model.ErrTooFewPlayers)
}

func (s *HubSuite) TestStartGameTwiceRejected() {
	roomID := s.startableRoom()

	_, err := s.hub.StartGame(s.ctx, "alice", roomID)
	s.Require().NoError(err)

	_, err = s.hub.StartGame(s.ctx, "alice", roomID)
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *HubSuite) TestStartGameUnknownRoom() {
	s.login("alice")

	_, err := s.hub.StartGame(s.ctx, "alice", "no-such-room")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *HubSuite) TestStartGameMissingPackageIsAtomic() {
	// Game exists in the catalog but no package was ever uploaded
	_, err := s.catalog.CreateGame(s.ctx, "dev", "vaporware", "", "cli", 4)
	s.Require().NoError(err)
	s.login("alice")
	s.login("bob")
	room, err := s.hub.CreateRoom(s.ctx, "alice", "vaporware", "", 4)
	s.Require().NoError(err)
	_, err = s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.Require().NoError(err)

	_, err = s.hub.StartGame(s.ctx, "alice", room.ID)
	s.ErrorIs(err, model.ErrLaunchFailed)

	// No partial mutation: room untouched, no records, nothing spawned
	unchanged, err := s.hub.GetRoom(room.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusWaiting, unchanged.Status)
	s.Zero(unchanged.GameServerPort)

	records, err := s.catalog.PlayerRecords(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(records)
	s.Empty(s.launcher.Launches())
}

func (s *HubSuite) TestStartGameSpawnFailureIsAtomic() {
	roomID := s.startableRoom()
	s.launcher.LaunchErr = errors.New("exec format error")

	_, err := s.hub.StartGame(s.ctx, "alice", roomID)
	s.ErrorIs(err, model.ErrLaunchFailed)

	room, err := s.hub.GetRoom(roomID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusWaiting, room.Status)
	s.Zero(room.GameServerPort)

	records, err := s.catalog.PlayerRecords(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *HubSuite) TestStartGameReadyFailureKillsProcess() {
	roomID := s.startableRoom()
	s.launcher.ReadyErr = errors.New("port never opened")

	_, err := s.hub.StartGame(s.ctx, "alice", roomID)
	s.ErrorIs(err, model.ErrLaunchFailed)

	proc := s.launcher.LastProcess()
	s.Require().NotNil(proc)
	s.True(proc.Killed())

	// The monitor reverts the room once the killed process exits
	s.Eventually(func() bool {
		room, err := s.hub.GetRoom(roomID)
		return err == nil && room.Status == model.RoomStatusWaiting
	}, time.Second, 10*time.Millisecond)
}

func (s *HubSuite) TestMonitorRevertsRoomOnExit() {
	roomID := s.startableRoom()

	_, err := s.hub.StartGame(s.ctx, "alice", roomID)
	s.Require().NoError(err)

	s.launcher.LastProcess().Exit(nil)

	s.Eventually(func() bool {
		room, err := s.hub.GetRoom(roomID)
		return err == nil &&
			room.Status == model.RoomStatusWaiting &&
			room.GameServerPort == 0
	}, time.Second, 10*time.Millisecond)

	// Persisted revert too
	stored, err := s.storage.GetRoom(s.ctx, roomID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusWaiting, stored.Status)

	// The room can host a fresh match afterwards
	match, err := s.hub.StartGame(s.ctx, "alice", roomID)
	s.Require().NoError(err)
	s.Equal(10001, match.Port)
}

func (s *HubSuite) TestDissolvedRoomKillsGameServer() {
	roomID := s.startableRoom()
	_, err := s.hub.StartGame(s.ctx, "alice", roomID)
	s.Require().NoError(err)

	// Both players drop mid-match and the room dissolves
	s.hub.Disconnect(s.ctx, "alice")
	s.hub.Disconnect(s.ctx, "bob")

	_, err = s.hub.GetRoom(roomID)
	s.ErrorIs(err, model.ErrRoomNotFound)

	proc := s.launcher.LastProcess()
	s.Require().NotNil(proc)
	s.True(proc.Killed())
}

func (s *HubSuite) TestPortAllocationWrapsAround() {
	s.hub = s.newHub(lobby.Config{
		PortStart:    10000,
		PortEnd:      10001,
		ReadyTimeout: time.Second,
	})
	roomID := s.startableRoom()

	for _, wantPort := range []int{10000, 10001, 10000} {
		match, err := s.hub.StartGame(s.ctx, "alice", roomID)
		s.Require().NoError(err)
		s.Equal(wantPort, match.Port)

		s.launcher.LastProcess().Exit(nil)
		s.Eventually(func() bool {
			room, err := s.hub.GetRoom(roomID)
			return err == nil && room.Status == model.RoomStatusWaiting
		}, time.Second, 10*time.Millisecond)
	}
}
