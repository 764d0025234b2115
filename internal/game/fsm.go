package game

import (
	"fmt"

	"casino_engine/internal/model"
)

// Machine - общее ядро конечного автомата раунда.
// Хранит текущую фазу и таблицу допустимых переходов; переход вне
// таблицы отклоняется с ErrInvalidTransition. Терминальные фазы
// не имеют исходящих переходов
type Machine struct {
	phase    model.Phase
	table    map[model.Phase][]model.Phase
	terminal map[model.Phase]bool
}

// NewMachine создает автомат в начальной фазе.
// Фазы без исходящих переходов считаются терминальными
func NewMachine(initial model.Phase, table map[model.Phase][]model.Phase) *Machine {
	terminal := make(map[model.Phase]bool)
	for _, targets := range table {
		for _, to := range targets {
			if len(table[to]) == 0 {
				terminal[to] = true
			}
		}
	}
	return &Machine{
		phase:    initial,
		table:    table,
		terminal: terminal,
	}
}

// Phase возвращает текущую фазу
func (m *Machine) Phase() model.Phase {
	return m.phase
}

// Terminal сообщает, достигнута ли терминальная фаза
func (m *Machine) Terminal() bool {
	return m.terminal[m.phase]
}

// Can проверяет допустимость перехода без его выполнения
func (m *Machine) Can(to model.Phase) bool {
	for _, t := range m.table[m.phase] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition выполняет переход в фазу to.
// Из терминальной фазы перехода нет
func (m *Machine) Transition(to model.Phase) error {
	if !m.Can(to) {
		return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, m.phase, to)
	}
	m.phase = to
	return nil
}
