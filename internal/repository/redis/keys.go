package redis

import "fmt"

const ns = "reservademesa:v1"

func KeyDayReservations(day string) string {
	return fmt.Sprintf("%s:day:%s:reservations", ns, day)
}

// KeyRemembrance names the durable per-client record list. One key holds the
// whole list as a JSON array and is overwritten wholesale on every mutation.
func KeyRemembrance(clientID string) string {
	return fmt.Sprintf("%s:rem:%s", ns, clientID)
}

func KeyIdemConfirm(clientID, idemKey string) string {
	return fmt.Sprintf("%s:idem:confirm:%s:%s", ns, clientID, idemKey)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelDaysChanged() string {
	return ns + ":days:changed"
}
