package enums

type SwipeAction string

const (
	SwipeActionLike SwipeAction = "like"
	SwipeActionPass SwipeAction = "pass"
)
