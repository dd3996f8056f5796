package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case Tenant:
		o.printTenant(v)
	case Room:
		o.printRoom(v)
	case RoomList:
		o.printRoomList(v)
	case Position:
		o.printPosition(v)
	case PositionList:
		o.printPositionList(v)
	case StatusResult:
		o.printStatusResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	SessionToken string `json:"session_token"`
	PlayerID     string `json:"player_id"`
	State        string `json:"state"`
	TenantKey    string `json:"tenant_key,omitempty"`
	RoomCode     string `json:"room_code,omitempty"`
}

// Tenant response type
type Tenant struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

// Room response type
type Room struct {
	Code      string    `json:"code"`
	TenantKey string    `json:"tenant_key"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Position response type
type Position struct {
	PlayerID  string    `json:"player_id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	RoomCode  string    `json:"room_code,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PositionList response type
type PositionList struct {
	Positions []Position `json:"positions"`
}

// StatusResult response type
type StatusResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Player: %s\n", s.PlayerID)
	fmt.Printf("State: %s\n", s.State)
	if s.TenantKey != "" {
		fmt.Printf("Server Key: %s\n", s.TenantKey)
	}
	if s.RoomCode != "" {
		fmt.Printf("Room: %s\n", s.RoomCode)
	}
	fmt.Printf("Token: %s\n", s.SessionToken)
}

func (o *Output) printTenant(t Tenant) {
	fmt.Printf("Server Key: %s\n", t.Key)
	fmt.Printf("Created: %s\n", t.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Server Key: %s\n", r.TenantKey)
	if len(r.Members) == 0 {
		fmt.Println("Members: none")
	} else {
		fmt.Printf("Members (%d): %s\n", len(r.Members), strings.Join(r.Members, ", "))
	}
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Println("No rooms")
		return
	}
	fmt.Printf("Rooms (%d):\n", len(l.Rooms))
	for _, r := range l.Rooms {
		fmt.Printf("  - %s (%d members)\n", r.Code, len(r.Members))
	}
}

func (o *Output) printPosition(p Position) {
	fmt.Printf("Player: %s\n", p.PlayerID)
	fmt.Printf("Position: (%g, %g, %g)\n", p.X, p.Y, p.Z)
	if p.RoomCode != "" {
		fmt.Printf("Room: %s\n", p.RoomCode)
	}
	fmt.Printf("Updated: %s\n", p.UpdatedAt.Format(time.RFC3339))
}

func (o *Output) printPositionList(l PositionList) {
	if len(l.Positions) == 0 {
		fmt.Println("No positions")
		return
	}
	fmt.Printf("Positions (%d):\n", len(l.Positions))
	for _, p := range l.Positions {
		roomStr := ""
		if p.RoomCode != "" {
			roomStr = fmt.Sprintf(" [room %s]", p.RoomCode)
		}
		fmt.Printf("  - %s: (%g, %g, %g)%s\n", p.PlayerID, p.X, p.Y, p.Z, roomStr)
	}
}

func (o *Output) printStatusResult(s StatusResult) {
	fmt.Printf("Status: %s\n", s.Status)
}
