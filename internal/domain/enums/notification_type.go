package enums

type NotificationType string

const (
	NotificationTypeLikeReceived        NotificationType = "like_received"
	NotificationTypeMatchCreated        NotificationType = "match_created"
	NotificationTypeApplicationReceived NotificationType = "application_received"
	NotificationTypeApplicationAccepted NotificationType = "application_accepted"
	NotificationTypeApplicationRejected NotificationType = "application_rejected"
	NotificationTypeMemberJoined        NotificationType = "member_joined"
)
