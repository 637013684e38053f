package lobby_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/gamehub/internal/model"
)

func (s *HubSuite) TestCreateRoom() {
	s.publishGame("connect4", 4)
	s.login("alice")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)

	s.NotEmpty(room.ID)
	s.Equal("alice", room.Host)
	s.Equal("connect4", room.GameName)
	s.Equal("1.0.0", room.GameVersion)
	s.Equal(4, room.MaxPlayers)
	s.Equal([]string{"alice"}, room.Players)
	s.Equal(model.RoomStatusWaiting, room.Status)

	// Persisted write-through
	stored, err := s.storage.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal("alice", stored.Host)
}

func (s *HubSuite) TestCreateRoomCapsAtGameMaxPlayers() {
	s.publishGame("connect4", 2)
	s.login("alice")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 8)
	s.Require().NoError(err)
	s.Equal(2, room.MaxPlayers)
}

func (s *HubSuite) TestCreateRoomRequiresLogin() {
	s.publishGame("connect4", 4)

	_, err := s.hub.CreateRoom(s.ctx, "ghost", "connect4", "", 4)
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

func (s *HubSuite) TestCreateRoomRejectsUnknownGame() {
	s.login("alice")

	_, err := s.hub.CreateRoom(s.ctx, "alice", "no-such-game", "", 4)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *HubSuite) TestCreateRoomRejectsInactiveGame() {
	s.publishGame("connect4", 4)
	s.Require().NoError(s.catalog.Deactivate(s.ctx, "dev", "connect4"))
	s.login("alice")

	_, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.ErrorIs(err, model.ErrGameInactive)
}

func (s *HubSuite) TestCreateRoomRejectsUnknownVersion() {
	s.publishGame("connect4", 4)
	s.login("alice")

	_, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "9.9.9", 4)
	s.ErrorIs(err, model.ErrVersionNotFound)
}

func (s *HubSuite) TestCreateSecondRoomRejected() {
	s.publishGame("connect4", 4)
	s.login("alice")

	_, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)

	_, err = s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

func (s *HubSuite) TestJoinRoom() {
	s.publishGame("connect4", 4)
	s.login("alice")
	s.login("bob")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)

	joined, err := s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, joined.Players)
	s.Equal("alice", joined.Host)
}

func (s *HubSuite) TestJoinRoomErrors() {
	s.publishGame("connect4", 2)
	s.login("alice")
	s.login("bob")
	s.login("carol")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 2)
	s.Require().NoError(err)

	_, err = s.hub.JoinRoom(s.ctx, "ghost", room.ID)
	s.ErrorIs(err, model.ErrNotLoggedIn)

	_, err = s.hub.JoinRoom(s.ctx, "bob", "no-such-room")
	s.ErrorIs(err, model.ErrRoomNotFound)

	_, err = s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.Require().NoError(err)

	// Already a member of this room
	_, err = s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.ErrorIs(err, model.ErrAlreadyInRoom)

	// Room is at capacity
	_, err = s.hub.JoinRoom(s.ctx, "carol", room.ID)
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *HubSuite) TestJoinPlayingRoomRejected() {
	s.publishGame("connect4", 4)
	s.login("alice")
	s.login("bob")
	s.login("carol")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)
	_, err = s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.Require().NoError(err)
	_, err = s.hub.StartGame(s.ctx, "alice", room.ID)
	s.Require().NoError(err)

	_, err = s.hub.JoinRoom(s.ctx, "carol", room.ID)
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *HubSuite) TestConcurrentJoinsRespectCapacity() {
	const contenders = 10

	s.publishGame("connect4", 3)
	s.login("host")
	room, err := s.hub.CreateRoom(s.ctx, "host", "connect4", "", 3)
	s.Require().NoError(err)

	names := make([]string, contenders)
	for i := range names {
		names[i] = fmt.Sprintf("player%d", i)
		s.login(names[i])
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			_, errs[i] = s.hub.JoinRoom(s.ctx, name, room.ID)
		}(i, name)
	}
	wg.Wait()

	joined := 0
	for _, err := range errs {
		if err == nil {
			joined++
		} else {
			s.ErrorIs(err, model.ErrRoomFull)
		}
	}
	// Host plus exactly two winners
	s.Equal(2, joined)

	final, err := s.hub.GetRoom(room.ID)
	s.Require().NoError(err)
	s.Len(final.Players, 3)
}

func (s *HubSuite) TestLeaveRoomMigratesHost() {
	s.publishGame("connect4", 4)
	s.login("alice")
	s.login("bob")
	s.login("carol")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)
	_, err = s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.Require().NoError(err)
	_, err = s.hub.JoinRoom(s.ctx, "carol", room.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.hub.LeaveRoom(s.ctx, "alice", room.ID))

	// Host hands over to the earliest-joined survivor, order preserved
	remaining, err := s.hub.GetRoom(room.ID)
	s.Require().NoError(err)
	s.Equal("bob", remaining.Host)
	s.Equal([]string{"bob", "carol"}, remaining.Players)
}

func (s *HubSuite) TestLeaveRoomNonHostKeepsHost() {
	s.publishGame("connect4", 4)
	s.login("alice")
	s.login("bob")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)
	_, err = s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.hub.LeaveRoom(s.ctx, "bob", room.ID))

	remaining, err := s.hub.GetRoom(room.ID)
	s.Require().NoError(err)
	s.Equal("alice", remaining.Host)
	s.Equal([]string{"alice"}, remaining.Players)
}

func (s *HubSuite) TestLastPlayerLeavingDissolvesRoom() {
	s.publishGame("connect4", 4)
	s.login("alice")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)

	s.Require().NoError(s.hub.LeaveRoom(s.ctx, "alice", room.ID))

	_, err = s.hub.GetRoom(room.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
	_, err = s.storage.GetRoom(s.ctx, room.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)

	// Free to create another room afterwards
	_, err = s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)
}

func (s *HubSuite) TestLeaveRoomNotAMember() {
	s.publishGame("connect4", 4)
	s.login("alice")
	s.login("bob")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)

	s.ErrorIs(s.hub.LeaveRoom(s.ctx, "bob", room.ID), model.ErrNotInRoom)
	s.ErrorIs(s.hub.LeaveRoom(s.ctx, "ghost", room.ID), model.ErrNotLoggedIn)
}

func (s *HubSuite) TestListRoomsOrderedByCreation() {
	s.publishGame("connect4", 4)
	s.login("alice")
	s.login("bob")

	first, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	second, err := s.hub.CreateRoom(s.ctx, "bob", "connect4", "", 4)
	s.Require().NoError(err)

	rooms := s.hub.ListRooms()
	s.Require().Len(rooms, 2)
	s.Equal(first.ID, rooms[0].ID)
	s.Equal(second.ID, rooms[1].ID)
}

func (s *HubSuite) TestListRoomsSnapshotsAreCopies() {
	s.publishGame("connect4", 4)
	s.login("alice")

	_, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)

	rooms := s.hub.ListRooms()
	rooms[0].Players[0] = "mallory"
	rooms[0].Host = "mallory"

	fresh := s.hub.ListRooms()
	s.Equal("alice", fresh[0].Host)
	s.Equal([]string{"alice"}, fresh[0].Players)
}
