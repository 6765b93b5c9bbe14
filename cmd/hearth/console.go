package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hearthhome/hearth-core/internal/audit"
	"github.com/hearthhome/hearth-core/internal/device"
	"github.com/hearthhome/hearth-core/internal/energy"
	"github.com/hearthhome/hearth-core/internal/infrastructure/logging"
	"github.com/hearthhome/hearth-core/internal/notify"
	"github.com/hearthhome/hearth-core/internal/profile"
	"github.com/hearthhome/hearth-core/internal/schedule"
	"github.com/hearthhome/hearth-core/internal/voice"
)

// console is the interactive loop driving the panel core. Built-in
// commands inspect state; any other input is treated as a voice
// transcript.
type console struct {
	in  io.Reader
	out io.Writer

	logger    *logging.Logger
	devices   *device.Registry
	schedules *schedule.Registry
	trail     *audit.Trail
	queue     *notify.Queue
	owner     *profile.Manager
	usage     *energy.Store
	assistant *voice.Controller
}

func (c *console) run(ctx context.Context) error {
	fmt.Fprintln(c.out, `Hearth console. Type "help" for commands.`)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(c.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := c.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle executes one console line, returning true on quit.
func (c *console) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	cmd, arg, _ := strings.Cut(line, " ")

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true
	case "help":
		c.printHelp()
	case "devices":
		c.printDevices()
	case "toggle":
		c.toggle(ctx, strings.TrimSpace(arg))
	case "add-device":
		c.addDevice(ctx, arg)
	case "schedules":
		c.printSchedules()
	case "add-schedule":
		c.addSchedule(ctx, arg)
	case "logs":
		c.printLogs()
	case "notifications":
		c.printNotifications()
	case "energy":
		c.printEnergy(ctx)
	case "profile":
		c.printProfile()
	case "theme":
		c.setTheme(ctx, strings.TrimSpace(arg))
	case "export":
		c.export(strings.TrimSpace(arg))
	default:
		// Anything unrecognised is treated as speech.
		if _, err := c.assistant.HandleTranscript(ctx, line); err != nil {
			fmt.Fprintf(c.out, "voice: %v\n", err)
		}
	}
	return false
}

func (c *console) printHelp() {
	fmt.Fprint(c.out, `Commands:
  devices                      list devices by room
  toggle <id>                  flip a device's state
  add-device <name>            register a new device
  schedules                    list schedules
  add-schedule <time> <id> <action>
  logs                         show the activity log
  notifications                show queued notifications
  energy                       show the last week's usage
  profile                      show owner profile and theme
  theme <light|dark>           switch the panel theme
  export <path>                write the activity log as CSV
  quit                         exit
Anything else is interpreted as a voice command.
`)
}

func (c *console) printDevices() {
	rooms := c.devices.SnapshotByRoom()
	for room, list := range rooms {
		fmt.Fprintf(c.out, "%s:\n", room)
		for _, d := range list {
			state := "off"
			if d.On {
				state = "on"
			}
			if d.Type == device.TypeLock {
				state = "locked"
				if d.On {
					state = "unlocked"
				}
			}
			fmt.Fprintf(c.out, "  %-20s %-12s %-10s last seen %s\n", d.ID, d.Name, state, d.LastSeen)
		}
	}
}

func (c *console) toggle(ctx context.Context, id string) {
	d, ok := c.devices.Get(id)
	if !ok {
		fmt.Fprintf(c.out, "unknown device %q\n", id)
		return
	}

	var err error
	if d.Type == device.TypeLock {
		_, err = c.devices.ToggleLock(ctx, id, d.On, device.SourceUI)
	} else {
		_, err = c.devices.Toggle(ctx, id, !d.On, device.SourceUI)
	}
	if err != nil {
		fmt.Fprintf(c.out, "toggle: %v\n", err)
	}
}

func (c *console) addDevice(ctx context.Context, arg string) {
	d, err := c.devices.Create(ctx, arg, device.TypeOther, "living")
	if err != nil {
		fmt.Fprintf(c.out, "add-device: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "added %s\n", d.ID)
}

func (c *console) printSchedules() {
	list := c.schedules.List()
	if len(list) == 0 {
		fmt.Fprintln(c.out, "no schedules")
		return
	}
	for _, s := range list {
		fmt.Fprintf(c.out, "%s  %-8s %-20s %s\n", s.ID, s.Time, s.DeviceID, s.ActionLabel)
	}
}

func (c *console) addSchedule(ctx context.Context, arg string) {
	fields := strings.Fields(arg)
	if len(fields) != 3 {
		fmt.Fprintln(c.out, "usage: add-schedule <time> <device-id> <action>")
		return
	}
	s, err := c.schedules.Create(ctx, fields[0], fields[1], fields[2])
	if err != nil {
		fmt.Fprintf(c.out, "add-schedule: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "created %s\n", s.ID)
}

func (c *console) printLogs() {
	entries := c.trail.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "no activity")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(c.out, "%s  %-16s %-40s %s\n", e.Time, e.Device, e.Action, e.User)
	}
}

func (c *console) printNotifications() {
	items := c.queue.Items()
	if len(items) == 0 {
		fmt.Fprintln(c.out, "no notifications")
		return
	}
	for _, n := range items {
		fmt.Fprintf(c.out, "%s  %s\n", n.At, n.Text)
	}
}

func (c *console) printEnergy(ctx context.Context) {
	buckets, err := c.usage.Daily(ctx, 7)
	if err != nil {
		fmt.Fprintf(c.out, "energy: %v\n", err)
		return
	}
	for _, b := range buckets {
		fmt.Fprintf(c.out, "%s  %5.1f kWh\n", b.Date, b.KWh)
	}
}

func (c *console) printProfile() {
	p := c.owner.Profile()
	fmt.Fprintf(c.out, "%s <%s>  theme=%s\n", p.Name, p.Email, c.owner.Theme())
}

func (c *console) setTheme(ctx context.Context, arg string) {
	if err := c.owner.SetTheme(ctx, profile.Theme(arg)); err != nil {
		fmt.Fprintf(c.out, "theme: %v\n", err)
	}
}

func (c *console) export(path string) {
	if path == "" {
		path = audit.ExportFilename(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(c.out, "export: %v\n", err)
		return
	}
	defer f.Close() //nolint:errcheck // Write errors surface below

	if err := c.trail.ExportCSV(f); err != nil {
		fmt.Fprintf(c.out, "export: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "wrote %s\n", path)
	c.logger.Info("exported activity log", "path", path)
}
