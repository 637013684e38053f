package lobby_test

import (
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/lobby"
)

func (s *HubSuite) TestRegisterAndLogin() {
	s.Require().NoError(s.hub.Register(s.ctx, "alice", "secret", model.RolePlayer))

	user, err := s.hub.Login(s.ctx, "alice", "secret", model.RolePlayer)
	s.Require().NoError(err)
	s.Equal("alice", user.Username)
	s.True(user.IsOnline)
	s.Require().NotNil(user.LastLogin)
	s.Equal(s.clock.Now(), *user.LastLogin)
	s.True(s.hub.IsOnline("alice"))
}

func (s *HubSuite) TestRegisterDuplicateUsername() {
	s.Require().NoError(s.hub.Register(s.ctx, "alice", "secret", model.RolePlayer))

	err := s.hub.Register(s.ctx, "alice", "other", model.RoleDeveloper)
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *HubSuite) TestRegisterRejectsEmptyAndBadRole() {
	s.ErrorIs(s.hub.Register(s.ctx, "", "secret", model.RolePlayer), model.ErrInvalidCredentials)
	s.ErrorIs(s.hub.Register(s.ctx, "alice", "", model.RolePlayer), model.ErrInvalidCredentials)
	s.ErrorIs(s.hub.Register(s.ctx, "alice", "secret", model.Role("admin")), model.ErrInvalidCredentials)
}

func (s *HubSuite) TestLoginWrongPassword() {
	s.Require().NoError(s.hub.Register(s.ctx, "alice", "secret", model.RolePlayer))

	_, err := s.hub.Login(s.ctx, "alice", "wrong", model.RolePlayer)
	s.ErrorIs(err, model.ErrInvalidCredentials)
	s.False(s.hub.IsOnline("alice"))
}

func (s *HubSuite) TestLoginUnknownUser() {
	_, err := s.hub.Login(s.ctx, "ghost", "secret", model.RolePlayer)
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *HubSuite) TestLoginRoleMismatch() {
	s.Require().NoError(s.hub.Register(s.ctx, "dev", "secret", model.RoleDeveloper))

	_, err := s.hub.Login(s.ctx, "dev", "secret", model.RolePlayer)
	s.ErrorIs(err, model.ErrInvalidCredentials)

	// An empty requested role skips the check
	_, err = s.hub.Login(s.ctx, "dev", "secret", "")
	s.Require().NoError(err)
}

func (s *HubSuite) TestLoginSecondSessionRejected() {
	s.Require().NoError(s.hub.Register(s.ctx, "alice", "secret", model.RolePlayer))
	_, err := s.hub.Login(s.ctx, "alice", "secret", model.RolePlayer)
	s.Require().NoError(err)

	_, err = s.hub.Login(s.ctx, "alice", "secret", model.RolePlayer)
	s.ErrorIs(err, model.ErrAlreadyOnline)
}

func (s *HubSuite) TestLogout() {
	s.login("alice")

	s.Require().NoError(s.hub.Logout(s.ctx, "alice"))
	s.False(s.hub.IsOnline("alice"))

	user, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(user.IsOnline)

	// Logging back in works after logout
	_, err = s.hub.Login(s.ctx, "alice", "pw-alice", model.RolePlayer)
	s.Require().NoError(err)
}

func (s *HubSuite) TestLogoutWithoutSession() {
	s.ErrorIs(s.hub.Logout(s.ctx, "nobody"), model.ErrNotLoggedIn)
}

func (s *HubSuite) TestDisconnectCascadesRoomMembership() {
	s.publishGame("connect4", 4)
	s.login("alice")
	s.login("bob")

	room, err := s.hub.CreateRoom(s.ctx, "alice", "connect4", "", 4)
	s.Require().NoError(err)
	_, err = s.hub.JoinRoom(s.ctx, "bob", room.ID)
	s.Require().NoError(err)

	s.hub.Disconnect(s.ctx, "alice")

	s.False(s.hub.IsOnline("alice"))
	remaining, err := s.hub.GetRoom(room.ID)
	s.Require().NoError(err)
	s.Equal([]string{"bob"}, remaining.Players)
	s.Equal("bob", remaining.Host)
}

func (s *HubSuite) TestDisconnectWithoutSessionIsNoop() {
	s.hub.Disconnect(s.ctx, "")
	s.hub.Disconnect(s.ctx, "never-logged-in")
	s.Zero(s.hub.Stats().OnlineUsers)
}

func (s *HubSuite) TestListOnlineWithRoleFilter() {
	s.Require().NoError(s.hub.Register(s.ctx, "alice", "pw", model.RolePlayer))
	s.Require().NoError(s.hub.Register(s.ctx, "bob", "pw", model.RolePlayer))
	s.Require().NoError(s.hub.Register(s.ctx, "dev", "pw", model.RoleDeveloper))
	for _, u := range []string{"alice", "bob", "dev"} {
		_, err := s.hub.Login(s.ctx, u, "pw", "")
		s.Require().NoError(err)
	}

	all := s.hub.ListOnline("")
	s.Equal([]lobby.OnlineUser{
		{Username: "alice", Role: model.RolePlayer},
		{Username: "bob", Role: model.RolePlayer},
		{Username: "dev", Role: model.RoleDeveloper},
	}, all)

	devs := s.hub.ListOnline(model.RoleDeveloper)
	s.Equal([]lobby.OnlineUser{{Username: "dev", Role: model.RoleDeveloper}}, devs)
}
