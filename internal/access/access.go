// Package access решает, может ли пользователь выполнить действие над
// записью. Решение не зависит от HTTP: обработчики переводят его в
// редирект на вход или ответ 404.
package access

// Identity - непрозрачная ссылка на пользователя. Нулевой ID означает анонима.
type Identity struct {
	ID       int64
	Username string
}

// Anonymous - личность неаутентифицированного запроса.
var Anonymous = Identity{}

// Authenticated сообщает, вошёл ли пользователь.
func (i Identity) Authenticated() bool {
	return i.ID != 0
}

type Action int

const (
	// View - чтение публичных страниц (лента, новость).
	View Action = iota
	// ViewOwn - чтение, доступное только автору (заметка).
	ViewOwn
	Create
	Edit
	Delete
)

func (a Action) String() string {
	switch a {
	case View:
		return "view"
	case ViewOwn:
		return "view_own"
	case Create:
		return "create"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	}
	return "unknown"
}

type Decision int

const (
	Allow Decision = iota
	// Login - нужен вход; отвечаем редиректом на страницу входа с next.
	Login
	// NotFound - чужая запись; отвечаем 404, не раскрывая её существования.
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Login:
		return "login"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// IsAuthor сообщает, является ли requester автором записи owner.
// Аноним автором не бывает.
func IsAuthor(requester, owner Identity) bool {
	return requester.Authenticated() && requester.ID == owner.ID
}

// Check применяет правила видимости. Для View и Create owner не используется.
func Check(action Action, requester, owner Identity) Decision {
	if action == View {
		return Allow
	}
	if !requester.Authenticated() {
		return Login
	}
	if action == Create {
		return Allow
	}
	if IsAuthor(requester, owner) {
		return Allow
	}
	return NotFound
}
