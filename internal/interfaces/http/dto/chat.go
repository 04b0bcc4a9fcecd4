package dto

// ChatRequest 对话请求
type ChatRequest struct {
	// SessionID 为空时服务端开启新会话并在响应中返回
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse 对话响应
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	// Source 回复来源：cache 或 llm
	Source string `json:"source"`
	// CreateDoc 提示前端本回复可转入文书生成流程
	CreateDoc bool `json:"create_doc"`
}
