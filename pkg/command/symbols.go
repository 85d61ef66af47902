package command

import "reflect"

// ImportPath is the import path command files use for this package.
const ImportPath = "github.com/keshon/hotslash/pkg/command"

// Symbols exposes this package to the command interpreter, in the layout
// produced by yaegi extract.
var Symbols = map[string]map[string]reflect.Value{
	ImportPath + "/command": {
		// types
		"ChannelType":      reflect.ValueOf((*ChannelType)(nil)),
		"ChatInputCommand": reflect.ValueOf((*ChatInputCommand)(nil)),
		"Choice":           reflect.ValueOf((*Choice)(nil)),
		"Context":          reflect.ValueOf((*Context)(nil)),
		"Embed":            reflect.ValueOf((*Embed)(nil)),
		"Event":            reflect.ValueOf((*Event)(nil)),
		"Handler":          reflect.ValueOf((*Handler)(nil)),
		"Interaction":      reflect.ValueOf((*Interaction)(nil)),
		"InteractionType":  reflect.ValueOf((*InteractionType)(nil)),
		"Kind":             reflect.ValueOf((*Kind)(nil)),
		"Message":          reflect.ValueOf((*Message)(nil)),
		"MessageCommand":   reflect.ValueOf((*MessageCommand)(nil)),
		"Option":           reflect.ValueOf((*Option)(nil)),
		"OptionType":       reflect.ValueOf((*OptionType)(nil)),
		"OptionValue":      reflect.ValueOf((*OptionValue)(nil)),
		"Permission":       reflect.ValueOf((*Permission)(nil)),
		"Reply":            reflect.ValueOf((*Reply)(nil)),
		"User":             reflect.ValueOf((*User)(nil)),
		"UserCommand":      reflect.ValueOf((*UserCommand)(nil)),

		// functions
		"Bool":  reflect.ValueOf(Bool),
		"Float": reflect.ValueOf(Float),
		"Int":   reflect.ValueOf(Int),

		// variables
		"ErrNotAutocomplete": reflect.ValueOf(&ErrNotAutocomplete),

		// constants
		"KindChatInput":                    reflect.ValueOf(KindChatInput),
		"KindUser":                         reflect.ValueOf(KindUser),
		"KindMessage":                      reflect.ValueOf(KindMessage),
		"OptionSubcommand":                 reflect.ValueOf(OptionSubcommand),
		"OptionSubcommandGroup":            reflect.ValueOf(OptionSubcommandGroup),
		"OptionString":                     reflect.ValueOf(OptionString),
		"OptionInteger":                    reflect.ValueOf(OptionInteger),
		"OptionBoolean":                    reflect.ValueOf(OptionBoolean),
		"OptionUser":                       reflect.ValueOf(OptionUser),
		"OptionChannel":                    reflect.ValueOf(OptionChannel),
		"OptionRole":                       reflect.ValueOf(OptionRole),
		"OptionMentionable":                reflect.ValueOf(OptionMentionable),
		"OptionNumber":                     reflect.ValueOf(OptionNumber),
		"OptionAttachment":                 reflect.ValueOf(OptionAttachment),
		"ChannelGuildText":                 reflect.ValueOf(ChannelGuildText),
		"ChannelDM":                        reflect.ValueOf(ChannelDM),
		"ChannelGuildVoice":                reflect.ValueOf(ChannelGuildVoice),
		"ChannelGroupDM":                   reflect.ValueOf(ChannelGroupDM),
		"ChannelGuildCategory":             reflect.ValueOf(ChannelGuildCategory),
		"ChannelGuildAnnouncement":         reflect.ValueOf(ChannelGuildAnnouncement),
		"ChannelAnnouncementThread":        reflect.ValueOf(ChannelAnnouncementThread),
		"ChannelPublicThread":              reflect.ValueOf(ChannelPublicThread),
		"ChannelPrivateThread":             reflect.ValueOf(ChannelPrivateThread),
		"ChannelGuildStageVoice":           reflect.ValueOf(ChannelGuildStageVoice),
		"ChannelGuildDirectory":            reflect.ValueOf(ChannelGuildDirectory),
		"ChannelGuildForum":                reflect.ValueOf(ChannelGuildForum),
		"ChannelGuildMedia":                reflect.ValueOf(ChannelGuildMedia),
		"PermissionCreateInstantInvite":    reflect.ValueOf(PermissionCreateInstantInvite),
		"PermissionKickMembers":            reflect.ValueOf(PermissionKickMembers),
		"PermissionBanMembers":             reflect.ValueOf(PermissionBanMembers),
		"PermissionAdministrator":          reflect.ValueOf(PermissionAdministrator),
		"PermissionManageChannels":         reflect.ValueOf(PermissionManageChannels),
		"PermissionManageGuild":            reflect.ValueOf(PermissionManageGuild),
		"PermissionAddReactions":           reflect.ValueOf(PermissionAddReactions),
		"PermissionViewAuditLog":           reflect.ValueOf(PermissionViewAuditLog),
		"PermissionPrioritySpeaker":        reflect.ValueOf(PermissionPrioritySpeaker),
		"PermissionStream":                 reflect.ValueOf(PermissionStream),
		"PermissionViewChannel":            reflect.ValueOf(PermissionViewChannel),
		"PermissionSendMessages":           reflect.ValueOf(PermissionSendMessages),
		"PermissionSendTTSMessages":        reflect.ValueOf(PermissionSendTTSMessages),
		"PermissionManageMessages":         reflect.ValueOf(PermissionManageMessages),
		"PermissionEmbedLinks":             reflect.ValueOf(PermissionEmbedLinks),
		"PermissionAttachFiles":            reflect.ValueOf(PermissionAttachFiles),
		"PermissionReadMessageHistory":     reflect.ValueOf(PermissionReadMessageHistory),
		"PermissionMentionEveryone":        reflect.ValueOf(PermissionMentionEveryone),
		"PermissionUseExternalEmojis":      reflect.ValueOf(PermissionUseExternalEmojis),
		"PermissionViewGuildInsights":      reflect.ValueOf(PermissionViewGuildInsights),
		"PermissionConnect":                reflect.ValueOf(PermissionConnect),
		"PermissionSpeak":                  reflect.ValueOf(PermissionSpeak),
		"PermissionMuteMembers":            reflect.ValueOf(PermissionMuteMembers),
		"PermissionDeafenMembers":          reflect.ValueOf(PermissionDeafenMembers),
		"PermissionMoveMembers":            reflect.ValueOf(PermissionMoveMembers),
		"PermissionUseVAD":                 reflect.ValueOf(PermissionUseVAD),
		"PermissionChangeNickname":         reflect.ValueOf(PermissionChangeNickname),
		"PermissionManageNicknames":        reflect.ValueOf(PermissionManageNicknames),
		"PermissionManageRoles":            reflect.ValueOf(PermissionManageRoles),
		"PermissionManageWebhooks":         reflect.ValueOf(PermissionManageWebhooks),
		"PermissionManageGuildExpressions": reflect.ValueOf(PermissionManageGuildExpressions),
		"PermissionUseApplicationCommands": reflect.ValueOf(PermissionUseApplicationCommands),
		"PermissionRequestToSpeak":         reflect.ValueOf(PermissionRequestToSpeak),
		"PermissionManageEvents":           reflect.ValueOf(PermissionManageEvents),
		"PermissionManageThreads":          reflect.ValueOf(PermissionManageThreads),
		"PermissionCreatePublicThreads":    reflect.ValueOf(PermissionCreatePublicThreads),
		"PermissionCreatePrivateThreads":   reflect.ValueOf(PermissionCreatePrivateThreads),
		"PermissionUseExternalStickers":    reflect.ValueOf(PermissionUseExternalStickers),
		"PermissionSendMessagesInThreads":  reflect.ValueOf(PermissionSendMessagesInThreads),
		"PermissionUseEmbeddedActivities":  reflect.ValueOf(PermissionUseEmbeddedActivities),
		"PermissionModerateMembers":        reflect.ValueOf(PermissionModerateMembers),
		"PermissionViewCreatorAnalytics":   reflect.ValueOf(PermissionViewCreatorAnalytics),
		"PermissionUseSoundboard":          reflect.ValueOf(PermissionUseSoundboard),
		"PermissionCreateGuildExpressions": reflect.ValueOf(PermissionCreateGuildExpressions),
		"PermissionCreateEvents":           reflect.ValueOf(PermissionCreateEvents),
		"PermissionUseExternalSounds":      reflect.ValueOf(PermissionUseExternalSounds),
		"PermissionSendVoiceMessages":      reflect.ValueOf(PermissionSendVoiceMessages),
		"InteractionPing":                  reflect.ValueOf(InteractionPing),
		"InteractionCommand":               reflect.ValueOf(InteractionCommand),
		"InteractionAutocomplete":          reflect.ValueOf(InteractionAutocomplete),
	},
}
