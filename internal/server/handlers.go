package server

import (
	"context"
	"fmt"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/protocol"
)

func (s *Server) buildHandlers() map[string]handler {
	return map[string]handler{
		string(protocol.TypeRegister):         {fn: handleRegister},
		string(protocol.TypeLogin):            {fn: handleLogin},
		string(protocol.TypeLogout):           {fn: handleLogout, needsAuth: true},
		string(protocol.TypeListOnline):       {fn: handleListOnline, needsAuth: true},
		string(protocol.TypeListGames):        {fn: handleListGames, needsAuth: true},
		string(protocol.TypeGetGameInfo):      {fn: handleGetGameInfo, needsAuth: true},
		string(protocol.TypeDownloadGame):     {fn: handleDownloadGame, needsAuth: true},
		string(protocol.TypeUploadGame):       {fn: handleUploadGame, needsAuth: true},
		string(protocol.TypeUpdateGame):       {fn: handleUpdateGame, needsAuth: true},
		string(protocol.TypeRemoveGame):       {fn: handleRemoveGame, needsAuth: true},
		string(protocol.TypeListRooms):        {fn: handleListRooms, needsAuth: true},
		string(protocol.TypeCreateRoom):       {fn: handleCreateRoom, needsAuth: true},
		string(protocol.TypeJoinRoom):         {fn: handleJoinRoom, needsAuth: true},
		string(protocol.TypeLeaveRoom):        {fn: handleLeaveRoom, needsAuth: true},
		string(protocol.TypeStartGame):        {fn: handleStartGame, needsAuth: true},
		string(protocol.TypeAddReview):        {fn: handleAddReview, needsAuth: true},
		string(protocol.TypeGetReviews):       {fn: handleGetReviews, needsAuth: true},
		string(protocol.TypeGetPlayerRecords): {fn: handleGetPlayerRecords, needsAuth: true},
	}
}

func handleRegister(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.RegisterRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed REGISTER payload"), nil
	}

	role := model.Role(payload.Role)
	if role == "" {
		role = model.RolePlayer
	}
	if err := sess.srv.hub.Register(ctx, payload.Username, payload.Password, role); err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK(fmt.Sprintf("user %s registered", payload.Username), nil), nil
}

func handleLogin(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	if sess.username != "" {
		return protocol.Error("already logged in on this connection"), nil
	}

	var payload protocol.LoginRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed LOGIN payload"), nil
	}

	user, err := sess.srv.hub.Login(ctx, payload.Username, payload.Password, model.Role(payload.Role))
	if err != nil {
		return protocol.Error(err.Error()), nil
	}

	sess.username = user.Username
	sess.role = user.Role
	return protocol.OK("login successful", protocol.LoginData{
		Username: user.Username,
		Role:     string(user.Role),
	}), nil
}

func handleLogout(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	if err := sess.srv.hub.Logout(ctx, sess.username); err != nil {
		return protocol.Error(err.Error()), nil
	}
	sess.username = ""
	sess.role = ""
	return protocol.OK("logged out", nil), nil
}

func handleListOnline(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.ListOnlineRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed LIST_ONLINE payload"), nil
	}

	online := sess.srv.hub.ListOnline(model.Role(payload.Role))
	usernames := make([]string, 0, len(online))
	for _, u := range online {
		usernames = append(usernames, u.Username)
	}
	return protocol.OK("", protocol.ListOnlineData{Users: usernames}), nil
}

func handleListGames(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.ListGamesRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed LIST_GAMES payload"), nil
	}

	var (
		games []*model.Game
		err   error
	)
	if payload.Mine {
		if sess.role != model.RoleDeveloper {
			return protocol.Error("developer account required"), nil
		}
		games, err = sess.srv.catalog.ListDeveloperGames(ctx, sess.username)
	} else {
		games, err = sess.srv.catalog.ListActiveGames(ctx)
	}
	if err != nil {
		return protocol.Error(err.Error()), nil
	}

	summaries := make([]protocol.GameSummary, 0, len(games))
	for _, game := range games {
		summaries = append(summaries, gameSummary(game))
	}
	return protocol.OK("", protocol.ListGamesData{Games: summaries}), nil
}

func handleGetGameInfo(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.GetGameInfoRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed GET_GAME_INFO payload"), nil
	}

	game, err := sess.srv.catalog.GetActiveGame(ctx, payload.Name)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}

	info := protocol.GameInfoData{GameSummary: gameSummary(game)}
	for version, meta := range game.Versions {
		info.Versions = append(info.Versions, protocol.VersionData{
			Version:     version,
			UploadedAt:  meta.UploadedAt,
			Description: meta.Description,
		})
	}
	// Game info carries only the latest reviews; the full history is
	// served by GET_REVIEWS
	for _, review := range game.RecentReviews(10) {
		info.Reviews = append(info.Reviews, reviewData(review))
	}
	return protocol.OK("", info), nil
}

// handleDownloadGame sends the SUCCESS envelope announcing the package
// size, then the package itself on the binary sub-protocol
func handleDownloadGame(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.DownloadGameRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed DOWNLOAD_GAME payload"), nil
	}

	game, err := sess.srv.catalog.GetActiveGame(ctx, payload.Name)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}
	version, err := sess.srv.catalog.ResolveVersion(game, payload.Version)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}
	data, err := sess.srv.catalog.LoadPackage(ctx, payload.Name, version)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}

	resp := protocol.OK("ready to transfer", protocol.DownloadGameData{
		Name:    payload.Name,
		Version: version,
		Size:    int64(len(data)),
	})
	if err := protocol.WriteMessage(sess.conn, resp); err != nil {
		return nil, err
	}
	if err := protocol.WriteRaw(sess.conn, data); err != nil {
		return nil, err
	}
	return nil, nil
}

// handleUploadGame validates the new game, signals readiness, then reads
// the package on the binary sub-protocol before publishing
func handleUploadGame(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	if sess.role != model.RoleDeveloper {
		return protocol.Error("developer account required"), nil
	}

	var payload protocol.UploadGameRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed UPLOAD_GAME payload"), nil
	}
	if payload.Name == "" {
		return protocol.Error("game name is required"), nil
	}
	if _, err := sess.srv.catalog.GetGame(ctx, payload.Name); err == nil {
		return protocol.Error(model.ErrGameExists.Error()), nil
	}

	if err := protocol.WriteMessage(sess.conn, protocol.OK("ready to transfer", nil)); err != nil {
		return nil, err
	}
	data, err := protocol.ReadRaw(sess.conn)
	if err != nil {
		return nil, err
	}

	game, err := sess.srv.catalog.CreateGame(ctx, sess.username, payload.Name, payload.Description, payload.Type, payload.MaxPlayers)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}
	if err := sess.srv.catalog.SavePackage(ctx, game.Name, game.CurrentVersion, data); err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK(fmt.Sprintf("game %s published at version %s", game.Name, game.CurrentVersion), nil), nil
}

// handleUpdateGame validates the new version, signals readiness, then
// reads its package on the binary sub-protocol before publishing
func handleUpdateGame(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	if sess.role != model.RoleDeveloper {
		return protocol.Error("developer account required"), nil
	}

	var payload protocol.UpdateGameRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed UPDATE_GAME payload"), nil
	}
	if payload.Version == "" {
		return protocol.Error("version is required"), nil
	}

	game, err := sess.srv.catalog.GetGame(ctx, payload.Name)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}
	if game.Developer != sess.username {
		return protocol.Error(model.ErrNotGameOwner.Error()), nil
	}
	if game.HasVersion(payload.Version) {
		return protocol.Error(model.ErrVersionExists.Error()), nil
	}

	if err := protocol.WriteMessage(sess.conn, protocol.OK("ready to transfer", nil)); err != nil {
		return nil, err
	}
	data, err := protocol.ReadRaw(sess.conn)
	if err != nil {
		return nil, err
	}

	if err := sess.srv.catalog.AddVersion(ctx, sess.username, payload.Name, payload.Version, payload.Description); err != nil {
		return protocol.Error(err.Error()), nil
	}
	if err := sess.srv.catalog.SavePackage(ctx, payload.Name, payload.Version, data); err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK(fmt.Sprintf("game %s updated to version %s", payload.Name, payload.Version), nil), nil
}

func handleRemoveGame(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	if sess.role != model.RoleDeveloper {
		return protocol.Error("developer account required"), nil
	}

	var payload protocol.RemoveGameRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed REMOVE_GAME payload"), nil
	}
	if err := sess.srv.catalog.Deactivate(ctx, sess.username, payload.Name); err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK(fmt.Sprintf("game %s removed from catalog", payload.Name), nil), nil
}

func handleListRooms(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	rooms := sess.srv.hub.ListRooms()
	data := protocol.ListRoomsData{Rooms: make([]protocol.RoomData, 0, len(rooms))}
	for _, room := range rooms {
		data.Rooms = append(data.Rooms, protocol.RoomData{
			RoomID:         string(room.ID),
			Host:           room.Host,
			GameName:       room.GameName,
			GameVersion:    room.GameVersion,
			MaxPlayers:     room.MaxPlayers,
			Players:        room.Players,
			Status:         string(room.Status),
			GameServerPort: room.GameServerPort,
			CreatedAt:      room.CreatedAt,
		})
	}
	return protocol.OK("", data), nil
}

func handleCreateRoom(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.CreateRoomRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed CREATE_ROOM payload"), nil
	}

	room, err := sess.srv.hub.CreateRoom(ctx, sess.username, payload.GameName, payload.GameVersion, 0)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK(fmt.Sprintf("room %s created", room.ID), protocol.CreateRoomData{
		RoomID:      string(room.ID),
		GameName:    room.GameName,
		GameVersion: room.GameVersion,
		MaxPlayers:  room.MaxPlayers,
	}), nil
}

func handleJoinRoom(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.JoinRoomRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed JOIN_ROOM payload"), nil
	}

	room, err := sess.srv.hub.JoinRoom(ctx, sess.username, model.RoomID(payload.RoomID))
	if err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK(fmt.Sprintf("joined room %s", room.ID), protocol.JoinRoomData{
		RoomID:   string(room.ID),
		GameName: room.GameName,
		Players:  room.Players,
	}), nil
}

func handleLeaveRoom(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.LeaveRoomRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed LEAVE_ROOM payload"), nil
	}

	if err := sess.srv.hub.LeaveRoom(ctx, sess.username, model.RoomID(payload.RoomID)); err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK("left room", nil), nil
}

func handleStartGame(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.StartGameRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed START_GAME payload"), nil
	}

	match, err := sess.srv.hub.StartGame(ctx, sess.username, model.RoomID(payload.RoomID))
	if err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK("game started", protocol.StartGameData{
		RoomID:         string(match.RoomID),
		GameServerPort: match.Port,
		Players:        match.Players,
	}), nil
}

func handleAddReview(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.AddReviewRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed ADD_REVIEW payload"), nil
	}

	if err := sess.srv.catalog.AddReview(ctx, sess.username, payload.GameName, payload.Rating, payload.Comment); err != nil {
		return protocol.Error(err.Error()), nil
	}
	return protocol.OK("review added", nil), nil
}

func handleGetReviews(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	var payload protocol.GetReviewsRequest
	if err := req.Decode(&payload); err != nil {
		return protocol.Error("malformed GET_REVIEWS payload"), nil
	}

	game, err := sess.srv.catalog.GetReviews(ctx, payload.GameName)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}

	data := protocol.GetReviewsData{
		AverageRating: game.AverageRating(),
		RatingCount:   game.RatingCount,
		Reviews:       make([]protocol.ReviewData, 0, len(game.Reviews)),
	}
	for _, review := range game.Reviews {
		data.Reviews = append(data.Reviews, reviewData(review))
	}
	return protocol.OK("", data), nil
}

func handleGetPlayerRecords(ctx context.Context, sess *session, req *protocol.Request) (*protocol.Response, error) {
	records, err := sess.srv.catalog.PlayerRecords(ctx, sess.username)
	if err != nil {
		return protocol.Error(err.Error()), nil
	}

	data := protocol.PlayerRecordsData{Records: make([]protocol.RecordData, 0, len(records))}
	for _, record := range records {
		data.Records = append(data.Records, protocol.RecordData{
			GameName:    record.GameName,
			GameVersion: record.GameVersion,
			PlayedAt:    record.PlayedAt,
			HasReviewed: record.HasReviewed,
		})
	}
	return protocol.OK("", data), nil
}

func gameSummary(game *model.Game) protocol.GameSummary {
	return protocol.GameSummary{
		Name:           game.Name,
		Developer:      game.Developer,
		Description:    game.Description,
		Type:           game.Type,
		MaxPlayers:     game.MaxPlayers,
		CurrentVersion: game.CurrentVersion,
		Rating:         game.AverageRating(),
		RatingCount:    game.RatingCount,
		IsActive:       game.IsActive,
	}
}

func reviewData(review model.Review) protocol.ReviewData {
	return protocol.ReviewData{
		Player:    review.Player,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
