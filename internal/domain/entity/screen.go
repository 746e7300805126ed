package entity

import "time"

// ScreenState состояние экрана классификации
type ScreenState string

const (
	StateAwaiting ScreenState = "awaiting" // Ожидание разрешения или модели
	StateRunning  ScreenState = "running"  // Камера и классификатор работают
)

const (
	MsgNoAccess       = "No access to camera"
	MsgModelNotLoaded = "Model not loaded"
)

// Screen хранит отображаемое состояние одного экрана
type Screen struct {
	ID          string          // Идентификатор экрана
	Permission  PermissionState // Результат запроса доступа к камере
	ModelLoaded bool            // Классификатор загружен
	State       ScreenState     // Текущее состояние
	Labels      []string        // Метки последней успешной классификации
	UpdatedAt   time.Time       // Время последнего изменения
}

// NewScreen создаёт экран в начальном состоянии
func NewScreen(id string) *Screen {
	return &Screen{
		ID:         id,
		Permission: PermissionUnknown,
		State:      StateAwaiting,
		Labels:     []string{},
		UpdatedAt:  time.Now(),
	}
}

// SetPermission фиксирует результат запроса доступа.
// Повторный вызов после известного результата игнорируется.
func (s *Screen) SetPermission(p PermissionState) {
	if s.Permission != PermissionUnknown {
		return
	}
	s.Permission = p
	s.advance()
}

// MarkModelLoaded отмечает, что классификатор готов.
func (s *Screen) MarkModelLoaded() {
	s.ModelLoaded = true
	s.advance()
}

// ReplaceLabels заменяет метки целиком. Пустой список игнорируется.
func (s *Screen) ReplaceLabels(labels []string) bool {
	if len(labels) == 0 {
		return false
	}
	s.Labels = append(make([]string, 0, len(labels)), labels...)
	s.UpdatedAt = time.Now()
	return true
}

// advance переводит экран в running; обратного перехода нет.
func (s *Screen) advance() {
	s.UpdatedAt = time.Now()
	if s.State == StateRunning {
		return
	}
	if s.Permission == PermissionGranted && s.ModelLoaded {
		s.State = StateRunning
	}
}

// ScreenView — то, что видит пользователь
type ScreenView struct {
	ScreenID    string   `json:"screen_id"`
	State       string   `json:"state"`
	Message     string   `json:"message,omitempty"`
	ShowPreview bool     `json:"show_preview"`
	Labels      []string `json:"labels"`
}

// View строит представление экрана.
func (s *Screen) View() ScreenView {
	v := ScreenView{
		ScreenID: s.ID,
		State:    string(s.State),
		Labels:   []string{},
	}

	switch {
	case s.Permission == PermissionUnknown:
		// Пустой экран, пока нет ответа
	case s.Permission == PermissionDenied:
		v.Message = MsgNoAccess
	case !s.ModelLoaded:
		v.Message = MsgModelNotLoaded
	default:
		v.ShowPreview = true
		v.Labels = append(v.Labels, s.Labels...)
	}

	return v
}
