package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest = "org.freedesktop.Notifications"
	notificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsIface = notificationsDest + ".Notify"
)

// DBusNotifier sends notifications via the freedesktop.org Notifications
// service over the D-Bus session bus. It holds the bus connection as a
// scoped handle: callers create one in main and Close it on shutdown,
// the same "no global state" shape spec.md §9 asks for in place of the
// process-wide init/uninit pair the original notification library needs.
type DBusNotifier struct {
	appName string
	conn    *dbus.Conn
}

// NewDBusNotifier connects to the session bus and returns a DBusNotifier
// identifying itself to the notification daemon as appName.
func NewDBusNotifier(appName string) (*DBusNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("notify: connect session bus: %w", err)
	}
	return &DBusNotifier{appName: appName, conn: conn}, nil
}

// Notify implements Notifier.
func (n *DBusNotifier) Notify(title, body string) error {
	obj := n.conn.Object(notificationsDest, notificationsPath)
	call := obj.Call(notificationsIface, 0,
		n.appName,       // app_name
		uint32(0),       // replaces_id
		"",              // app_icon
		title,           // summary
		body,            // body
		[]string{},      // actions
		map[string]dbus.Variant{}, // hints
		int32(-1),       // expire_timeout (server default)
	)
	if call.Err != nil {
		return fmt.Errorf("notify: Notify call: %w", call.Err)
	}
	return nil
}

// Close implements Notifier. DBusNotifier does not own the shared
// session bus connection's process-wide state, so Close only releases
// this handle's private connection.
func (n *DBusNotifier) Close() error {
	if err := n.conn.Close(); err != nil {
		return fmt.Errorf("notify: close: %w", err)
	}
	return nil
}
