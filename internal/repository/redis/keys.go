package redis

import "fmt"

const ns = "travelglide:v1"

func KeyUserReservations(userID string) string {
	return fmt.Sprintf("%s:user:%s:reservations", ns, userID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func KeyIdemComplete(sessionID, idemKey string) string {
	return fmt.Sprintf("%s:idem:complete:%s:%s", ns, sessionID, idemKey)
}

func ChannelReservationsChanged() string {
	return ns + ":reservations:changed"
}
