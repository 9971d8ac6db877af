// Package policy decides whether an actor may perform an action on a task,
// a comment or an attachment. Decisions are pure functions of already-loaded
// entities; nothing here touches storage.
package policy

import "taskmanager/internal/domain"

// Action is an operation checked against a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Decision is the outcome of a policy check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Resource names used in authorization errors.
const (
	ResourceTask       = "task"
	ResourceComment    = "comment"
	ResourceAttachment = "attachment"
)

// Task decides view, update and delete on a task. The assignee may update
// the task the same way the creator can; only the creator may delete it.
func Task(actor domain.Actor, action Action, task *domain.Task) Decision {
	if task == nil {
		return Deny
	}
	switch action {
	case ActionView, ActionUpdate:
		return Decision(isCreator(actor, task) || isAssignee(actor, task))
	case ActionDelete:
		return Decision(isCreator(actor, task))
	}
	return Deny
}

// Comment decides actions on a comment. Viewing and creating follow the
// parent task's view rule; editing and deleting are reserved to the author.
// comment may be nil for ActionCreate.
func Comment(actor domain.Actor, action Action, comment *domain.Comment, parent *domain.Task) Decision {
	switch action {
	case ActionView, ActionCreate:
		return Task(actor, ActionView, parent)
	case ActionUpdate, ActionDelete:
		if comment == nil {
			return Deny
		}
		return Decision(comment.UserID == actor.ID)
	}
	return Deny
}

// Attachment decides actions on an attachment. Viewing (and downloading) and
// uploading follow the parent task's view rule; deleting is reserved to the
// uploader. Attachments are never updated.
func Attachment(actor domain.Actor, action Action, attachment *domain.Attachment, parent *domain.Task) Decision {
	switch action {
	case ActionView, ActionCreate:
		return Task(actor, ActionView, parent)
	case ActionDelete:
		if attachment == nil {
			return Deny
		}
		return Decision(attachment.UserID == actor.ID)
	}
	return Deny
}

// Err converts a decision into nil or an authorization error.
func (d Decision) Err(resource string, action Action) error {
	if d == Allow {
		return nil
	}
	return domain.Forbidden(resource, string(action))
}

func isCreator(actor domain.Actor, task *domain.Task) bool {
	return actor.ID != 0 && task.CreatedBy == actor.ID
}

func isAssignee(actor domain.Actor, task *domain.Task) bool {
	return actor.ID != 0 && task.AssignedTo == actor.ID
}
