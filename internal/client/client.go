// Package client is a typed lobby client over the framed wire protocol.
// It drives one connection; the bound login session lives and dies with
// it, just like the server's session binding.
package client

import (
	"fmt"
	"net"

	"github.com/mcoot/gamehub/internal/protocol"
)

// ServerError is an ERROR envelope surfaced as a Go error. The
// connection remains usable after one of these.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Client is a lobby connection. Not safe for concurrent use; the wire
// protocol is strictly request/response on one stream.
type Client struct {
	conn net.Conn
}

// Dial connects to a lobby server
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial lobby %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close drops the connection. The server runs the disconnect cascade.
func (c *Client) Close() error {
	return c.conn.Close()
}

// roundTrip sends one request and reads one response envelope
func (c *Client) roundTrip(t protocol.MessageType, data any) (*protocol.Response, error) {
	req, err := protocol.NewRequest(t, data)
	if err != nil {
		return nil, err
	}
	if err := protocol.WriteMessage(c.conn, req); err != nil {
		return nil, err
	}

	var resp protocol.Response
	if err := protocol.ReadMessage(c.conn, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call is roundTrip plus ERROR-envelope conversion and payload decoding.
// out may be nil when the caller only cares about success.
func (c *Client) call(t protocol.MessageType, data, out any) error {
	resp, err := c.roundTrip(t, data)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return &ServerError{Message: resp.Message}
	}
	if out != nil {
		return resp.Decode(out)
	}
	return nil
}

func (c *Client) Register(username, password, role string) error {
	return c.call(protocol.TypeRegister, protocol.RegisterRequest{
		Username: username,
		Password: password,
		Role:     role,
	}, nil)
}

func (c *Client) Login(username, password, role string) (*protocol.LoginData, error) {
	var out protocol.LoginData
	err := c.call(protocol.TypeLogin, protocol.LoginRequest{
		Username: username,
		Password: password,
		Role:     role,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout() error {
	return c.call(protocol.TypeLogout, nil, nil)
}

func (c *Client) ListOnline(roleFilter string) ([]string, error) {
	var out protocol.ListOnlineData
	if err := c.call(protocol.TypeListOnline, protocol.ListOnlineRequest{Role: roleFilter}, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) ListGames() ([]protocol.GameSummary, error) {
	var out protocol.ListGamesData
	if err := c.call(protocol.TypeListGames, protocol.ListGamesRequest{}, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

// ListMyGames lists the logged-in developer's games, inactive included
func (c *Client) ListMyGames() ([]protocol.GameSummary, error) {
	var out protocol.ListGamesData
	if err := c.call(protocol.TypeListGames, protocol.ListGamesRequest{Mine: true}, &out); err != nil {
		return nil, err
	}
	return out.Games, nil
}

func (c *Client) GetGameInfo(name string) (*protocol.GameInfoData, error) {
	var out protocol.GameInfoData
	if err := c.call(protocol.TypeGetGameInfo, protocol.GetGameInfoRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadGame fetches a game package. The SUCCESS envelope announces
// the transfer, then the package arrives on the binary sub-protocol.
func (c *Client) DownloadGame(name, version string) (*protocol.DownloadGameData, []byte, error) {
	var out protocol.DownloadGameData
	if err := c.call(protocol.TypeDownloadGame, protocol.DownloadGameRequest{
		Name:    name,
		Version: version,
	}, &out); err != nil {
		return nil, nil, err
	}

	data, err := protocol.ReadRaw(c.conn)
	if err != nil {
		return nil, nil, err
	}
	if int64(len(data)) != out.Size {
		return nil, nil, fmt.Errorf("package size mismatch: announced %d, received %d", out.Size, len(data))
	}
	return &out, data, nil
}

// UploadGame publishes a new game. After the server signals readiness
// the package is sent on the binary sub-protocol and the final outcome
// read back.
func (c *Client) UploadGame(req protocol.UploadGameRequest, pkg []byte) error {
	if err := c.call(protocol.TypeUploadGame, req, nil); err != nil {
		return err
	}
	return c.sendPackage(pkg)
}

// UpdateGame publishes a new version of an existing game, with the same
// transfer handshake as UploadGame
func (c *Client) UpdateGame(req protocol.UpdateGameRequest, pkg []byte) error {
	if err := c.call(protocol.TypeUpdateGame, req, nil); err != nil {
		return err
	}
	return c.sendPackage(pkg)
}

// sendPackage completes a ready-to-transfer handshake: raw bytes out,
// final response envelope back
func (c *Client) sendPackage(pkg []byte) error {
	if err := protocol.WriteRaw(c.conn, pkg); err != nil {
		return err
	}

	var resp protocol.Response
	if err := protocol.ReadMessage(c.conn, &resp); err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return &ServerError{Message: resp.Message}
	}
	return nil
}

func (c *Client) RemoveGame(name string) error {
	return c.call(protocol.TypeRemoveGame, protocol.RemoveGameRequest{Name: name}, nil)
}

func (c *Client) ListRooms() ([]protocol.RoomData, error) {
	var out protocol.ListRoomsData
	if err := c.call(protocol.TypeListRooms, nil, &out); err != nil {
		return nil, err
	}
	return out.Rooms, nil
}

func (c *Client) CreateRoom(gameName, gameVersion string) (*protocol.CreateRoomData, error) {
	var out protocol.CreateRoomData
	if err := c.call(protocol.TypeCreateRoom, protocol.CreateRoomRequest{
		GameName:    gameName,
		GameVersion: gameVersion,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JoinRoom(roomID string) (*protocol.JoinRoomData, error) {
	var out protocol.JoinRoomData
	if err := c.call(protocol.TypeJoinRoom, protocol.JoinRoomRequest{RoomID: roomID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LeaveRoom(roomID string) error {
	return c.call(protocol.TypeLeaveRoom, protocol.LeaveRoomRequest{RoomID: roomID}, nil)
}

func (c *Client) StartGame(roomID string) (*protocol.StartGameData, error) {
	var out protocol.StartGameData
	if err := c.call(protocol.TypeStartGame, protocol.StartGameRequest{RoomID: roomID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddReview(gameName string, rating int, comment string) error {
	return c.call(protocol.TypeAddReview, protocol.AddReviewRequest{
		GameName: gameName,
		Rating:   rating,
		Comment:  comment,
	}, nil)
}

func (c *Client) GetReviews(gameName string) (*protocol.GetReviewsData, error) {
	var out protocol.GetReviewsData
	if err := c.call(protocol.TypeGetReviews, protocol.GetReviewsRequest{GameName: gameName}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPlayerRecords() ([]protocol.RecordData, error) {
	var out protocol.PlayerRecordsData
	if err := c.call(protocol.TypeGetPlayerRecords, nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}
