package signals

import "sync"

// Event 信号事件
type Event struct {
	Topic   string
	Payload interface{}
}

// Hub 进程内发布/订阅中心。替代环境级广播事件：
// 变更方显式 Publish，独立视图显式 Subscribe。
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewHub 创建信号中心
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[int]chan Event),
	}
}

// Subscribe 订阅主题，返回事件通道和取消函数。
// buffer 决定通道容量；慢消费者不会阻塞发布方。
func (h *Hub) Subscribe(topic string, buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan Event)
	}
	h.subs[topic][id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subs[topic]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.subs, topic)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish 向主题发布事件。订阅通道已满时丢弃该订阅者的这次事件，
// 发布方永不阻塞。
func (h *Hub) Publish(topic string, payload interface{}) {
	event := Event{Topic: topic, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount 返回主题当前订阅者数量
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}
