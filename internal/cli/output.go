package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
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
	case Identity:
		o.printIdentity(v)
	case Room:
		o.printRoom(v)
	case Roster:
		o.printRoster(v)
	case AuthResult:
		o.printAuthResult(v)
	case Account:
		o.printAccount(v)
	case Visit:
		o.printVisit(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Identity response type (matches API)
type Identity struct {
	Identity string `json:"identity"`
}

// Room response type
type Room struct {
	Code          string         `json:"code"`
	Started       bool           `json:"started"`
	Configuracion map[string]int `json:"configuracion"`
}

// Player response type
type Player struct {
	Name     string `json:"name"`
	IsLeader bool   `json:"isLeader"`
	Role     string `json:"role"`
	Alive    bool   `json:"alive"`
}

// Roster response type
type Roster struct {
	Players []Player `json:"players"`
}

// Account response type
type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// Visit response type
type Visit struct {
	Fingerprint string    `json:"fingerprint"`
	NewVisitor  bool      `json:"new_visitor"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printIdentity(i Identity) {
	fmt.Printf("Identity: %s\n", i.Identity)
}

func (o *Output) printRoom(r Room) {
	state := "waiting"
	if r.Started {
		state = "started"
	}
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("State: %s\n", state)
	fmt.Println("Roles:")

	roles := make([]string, 0, len(r.Configuracion))
	for role := range r.Configuracion {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		fmt.Printf("  %s: %d\n", role, r.Configuracion[role])
	}
}

func (o *Output) printRoster(r Roster) {
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		leaderStr := ""
		if p.IsLeader {
			leaderStr = " [leader]"
		}
		aliveStr := ""
		if !p.Alive {
			aliveStr = " (dead)"
		}
		fmt.Printf("  - %s - %s%s%s\n", p.Name, p.Role, leaderStr, aliveStr)
	}
}

func (o *Output) printAccount(a Account) {
	fmt.Printf("Account: %s (%s)\n", a.DisplayName, a.ID)
	fmt.Printf("Email: %s\n", a.Email)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printVisit(v Visit) {
	newStr := "no"
	if v.NewVisitor {
		newStr = "yes"
	}
	fmt.Printf("Fingerprint: %s\n", v.Fingerprint)
	fmt.Printf("New visitor: %s\n", newStr)
	fmt.Printf("First seen: %s\n", v.FirstSeen.Format(time.RFC3339))
	fmt.Printf("Last seen: %s\n", v.LastSeen.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
