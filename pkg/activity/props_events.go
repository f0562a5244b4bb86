package activity

import "strings"

const (
	VerbPropsSet           = "props.set"
	VerbPropsFlushed       = "props.flushed"
	VerbPropsRequeued      = "props.requeued"
	VerbPropsReinitialized = "props.reinitialized"
	VerbPropsUpdated       = "props.updated"

	// ObjectTypeProps is the object type of every props lifecycle event.
	ObjectTypeProps = "component.props"
)

// PropsEventInput describes the common fields for props lifecycle events.
type PropsEventInput struct {
	Identity
	Component string
	Channel   string
	Path      string
	Paths     []string
	Layer     string
	OldValue  any
	NewValue  any
	Metadata  map[string]any
}

// BuildPropsSetEvent describes a local edit landing in the dirty layer.
func BuildPropsSetEvent(input PropsEventInput) Event {
	return buildPropsEvent(VerbPropsSet, input)
}

// BuildPropsFlushedEvent describes dirty edits moving to the pending layer.
func BuildPropsFlushedEvent(input PropsEventInput) Event {
	return buildPropsEvent(VerbPropsFlushed, input)
}

// BuildPropsRequeuedEvent describes pending edits pushed back to dirty after
// a failed request.
func BuildPropsRequeuedEvent(input PropsEventInput) Event {
	return buildPropsEvent(VerbPropsRequeued, input)
}

// BuildPropsReinitializedEvent describes a wholesale canonical replacement.
func BuildPropsReinitializedEvent(input PropsEventInput) Event {
	return buildPropsEvent(VerbPropsReinitialized, input)
}

// BuildPropsUpdatedEvent describes a partial canonical update that changed
// at least one field.
func BuildPropsUpdatedEvent(input PropsEventInput) Event {
	return buildPropsEvent(VerbPropsUpdated, input)
}

func buildPropsEvent(verb string, input PropsEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
	}
	if len(input.Paths) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["paths"] = append([]string{}, input.Paths...)
		metadata["count"] = len(input.Paths)
	}
	if input.Layer != "" {
		metadata = ensureMetadata(metadata)
		metadata["layer"] = input.Layer
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := strings.TrimSpace(input.Component)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Path)
	}
	if objectID == "" {
		objectID = ObjectTypeProps
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeProps,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
